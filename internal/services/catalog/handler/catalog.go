package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"darzi-system/internal/database/models"
	"darzi-system/internal/pricing"
)

const (
	CATALOG_CACHE_PREFIX     = "catalog:"
	CATALOG_ITEM_TYPE_PREFIX = "catalog:item-type:"
	CATALOG_FABRIC_PREFIX    = "catalog:fabric:"
	CATALOG_BRANCH_CACHE_KEY = "catalog:branches"
	CACHE_TTL_SHORT          = 5 * time.Minute
	CACHE_TTL_MEDIUM         = 30 * time.Minute
)

type CatalogHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogHandler(db *gorm.DB, redisClient *redis.Client) *CatalogHandler {
	return &CatalogHandler{
		db:    db,
		redis: redisClient,
	}
}

// InvalidateCatalogCaches drops the cached lookups after any catalog
// write (seeding, admin imports).
func (h *CatalogHandler) InvalidateCatalogCaches(ctx context.Context, itemTypeIDs []int64, fabricIDs []int64) {
	_ = h.redis.Del(ctx, CATALOG_BRANCH_CACHE_KEY)
	for _, id := range itemTypeIDs {
		_ = h.redis.Del(ctx, CATALOG_ITEM_TYPE_PREFIX+strconv.FormatInt(id, 10))
	}
	for _, id := range fabricIDs {
		_ = h.redis.Del(ctx, CATALOG_FABRIC_PREFIX+strconv.FormatInt(id, 10))
	}
}

// itemTypeInfo reads one item type through the cache. The boolean is
// false only when the record does not exist; a zero stitching charge
// is a valid price.
func (h *CatalogHandler) itemTypeInfo(ctx context.Context, id int64) (pricing.ItemTypeInfo, bool, error) {
	key := CATALOG_ITEM_TYPE_PREFIX + strconv.FormatInt(id, 10)
	if cached, err := h.redis.Get(ctx, key).Result(); err == nil {
		var info pricing.ItemTypeInfo
		if json.Unmarshal([]byte(cached), &info) == nil {
			return info, true, nil
		}
	}

	var itemType models.ItemType
	if err := h.db.WithContext(ctx).Where("id = ?", id).First(&itemType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return pricing.ItemTypeInfo{}, false, nil
		}
		return pricing.ItemTypeInfo{}, false, err
	}

	charge, err := decimal.NewFromString(itemType.StitchingCharge)
	if err != nil {
		return pricing.ItemTypeInfo{}, false, err
	}
	info := pricing.ItemTypeInfo{
		ID:                itemType.ID,
		Name:              itemType.ItemName,
		StitchingCharge:   charge,
		MeasurementFields: itemType.MeasurementFields,
	}
	if payload, err := json.Marshal(info); err == nil {
		_ = h.redis.Set(ctx, key, payload, CACHE_TTL_MEDIUM)
	}
	return info, true, nil
}

func (h *CatalogHandler) fabricInfo(ctx context.Context, id int64) (pricing.FabricInfo, bool, error) {
	key := CATALOG_FABRIC_PREFIX + strconv.FormatInt(id, 10)
	if cached, err := h.redis.Get(ctx, key).Result(); err == nil {
		var info pricing.FabricInfo
		if json.Unmarshal([]byte(cached), &info) == nil {
			return info, true, nil
		}
	}

	var fabric models.Fabric
	if err := h.db.WithContext(ctx).Where("id = ?", id).First(&fabric).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return pricing.FabricInfo{}, false, nil
		}
		return pricing.FabricInfo{}, false, err
	}

	price, err := decimal.NewFromString(fabric.PricePerMeter)
	if err != nil {
		return pricing.FabricInfo{}, false, err
	}
	info := pricing.FabricInfo{
		ID:            fabric.ID,
		Name:          fabric.FabricName,
		PricePerMeter: price,
	}
	if payload, err := json.Marshal(info); err == nil {
		_ = h.redis.Set(ctx, key, payload, CACHE_TTL_MEDIUM)
	}
	return info, true, nil
}

// BuildSnapshot resolves every catalog reference an order carries into
// an in-memory snapshot, so the pricing core runs without touching the
// database. Missing records are simply absent from the snapshot; the
// pricer reports them per item.
func (h *CatalogHandler) BuildSnapshot(ctx context.Context, items []pricing.ItemInput) (pricing.Snapshot, error) {
	snapshot := pricing.NewSnapshot()
	for _, item := range items {
		if item.ItemTypeID != 0 {
			if _, done := snapshot.ItemTypes[item.ItemTypeID]; !done {
				info, found, err := h.itemTypeInfo(ctx, item.ItemTypeID)
				if err != nil {
					return snapshot, err
				}
				if found {
					snapshot.ItemTypes[item.ItemTypeID] = info
				}
			}
		}
		if item.FabricID != 0 {
			if _, done := snapshot.Fabrics[item.FabricID]; !done {
				info, found, err := h.fabricInfo(ctx, item.FabricID)
				if err != nil {
					return snapshot, err
				}
				if found {
					snapshot.Fabrics[item.FabricID] = info
				}
			}
		}
	}
	return snapshot, nil
}

// -- Read endpoints --

func (h *CatalogHandler) ListItemTypes(c *gin.Context) {
	var itemTypes []models.ItemType
	query := h.db.Model(&models.ItemType{}).Preload("Styles").Where("is_active = ?", true)
	if err := query.Order("item_name").Find(&itemTypes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item_types": itemTypes})
}

func (h *CatalogHandler) GetItemType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid item type id"})
		return
	}

	var itemType models.ItemType
	if err := h.db.Preload("Styles").Where("id = ?", id).First(&itemType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item type not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item_type": itemType})
}

func (h *CatalogHandler) ListFabrics(c *gin.Context) {
	var fabrics []models.Fabric
	query := h.db.Model(&models.Fabric{}).Where("is_active = ?", true)
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("fabric_name ILIKE ? OR fabric_code ILIKE ?", term, term)
	}
	if err := query.Order("fabric_name").Find(&fabrics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fabrics": fabrics})
}

func (h *CatalogHandler) GetFabric(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid fabric id"})
		return
	}

	var fabric models.Fabric
	if err := h.db.Where("id = ?", id).First(&fabric).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Fabric not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fabric": fabric})
}

func (h *CatalogHandler) ListBranches(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.redis.Get(ctx, CATALOG_BRANCH_CACHE_KEY).Result(); err == nil {
		var branches []models.Branch
		if json.Unmarshal([]byte(cached), &branches) == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "branches": branches})
			return
		}
	}

	var branches []models.Branch
	if err := h.db.Where("is_active = ?", true).Order("branch_name").Find(&branches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	if payload, err := json.Marshal(branches); err == nil {
		_ = h.redis.Set(ctx, CATALOG_BRANCH_CACHE_KEY, payload, CACHE_TTL_SHORT)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "branches": branches})
}

// ShippingMethods exposes the method list with the labels of the two
// method-specific extra fields, so the form can render them without
// duplicating the mapping.
func (h *CatalogHandler) ShippingMethods(c *gin.Context) {
	methods := []pricing.ShippingMethod{
		pricing.ShippingPickup,
		pricing.ShippingHomeDelivery,
		pricing.ShippingCourier,
		pricing.ShippingExpress,
		pricing.ShippingLocalTransport,
		pricing.ShippingCustomerCourier,
		pricing.ShippingAggregator,
		pricing.ShippingOther,
	}

	out := make([]gin.H, 0, len(methods))
	for _, m := range methods {
		labels := pricing.ExtraLabels(m)
		out = append(out, gin.H{
			"method":              m,
			"extra_field_1_label": labels.Field1,
			"extra_field_2_label": labels.Field2,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shipping_methods": out})
}
