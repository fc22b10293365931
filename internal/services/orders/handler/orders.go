package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"darzi-system/config"
	"darzi-system/internal/database/models"
	"darzi-system/internal/pricing"
	catalog "darzi-system/internal/services/catalog/handler"
	"darzi-system/internal/validate"
)

type OrdersHandler struct {
	db      *gorm.DB
	catalog *catalog.CatalogHandler
	cfg     config.Config
}

func NewOrdersHandler(db *gorm.DB, catalogHandler *catalog.CatalogHandler, cfg config.Config) *OrdersHandler {
	return &OrdersHandler{
		db:      db,
		catalog: catalogHandler,
		cfg:     cfg,
	}
}

func (h *OrdersHandler) pricingConfig() pricing.Config {
	return pricing.Config{
		DefaultTaxRate: h.cfg.Pricing.DefaultTaxRate,
		ClampDiscount:  h.cfg.Pricing.ClampDiscount,
		ClampBalance:   h.cfg.Pricing.ClampBalance,
	}
}

// orderNumberLockKey serializes order-number assignment across
// concurrent transactions. Released automatically at commit/rollback.
const orderNumberLockKey = 420002

// Helper to generate order number: ORD-YYYYMMDD-SEQ
func (h *OrdersHandler) generateOrderNumber(tx *gorm.DB) (string, error) {
	dateStr := time.Now().Format("20060102")

	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", orderNumberLockKey).Error; err != nil {
		return "", err
	}

	var lastOrder models.Order
	if err := tx.Order("id desc").First(&lastOrder).Error; err != nil && err != gorm.ErrRecordNotFound {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", h.cfg.Billing.OrderPrefix, dateStr, lastOrder.ID+1), nil
}

// -- Request structs --

type OrderItemRequest struct {
	ItemTypeID        *int64                     `json:"item_type_id,omitempty"`
	FabricID          *int64                     `json:"fabric_id,omitempty"`
	StyleID           *int64                     `json:"style_id,omitempty"`
	FabricMeters      decimal.Decimal            `json:"fabric_meters"`
	Quantity          int                        `json:"quantity"`
	Alteration        decimal.Decimal            `json:"alteration"`
	Handwork          decimal.Decimal            `json:"handwork"`
	OtherCharges      decimal.Decimal            `json:"other_charges"`
	DesignNumber      *string                    `json:"design_number,omitempty"`
	Description       *string                    `json:"description,omitempty"`
	ClientOrderNumber *string                    `json:"client_order_number,omitempty"`
	Measurements      map[string]decimal.Decimal `json:"measurements,omitempty"`
}

type ClientDetailsRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	GSTIN   string `json:"gstin,omitempty"`
	PAN     string `json:"pan,omitempty"`
	Email   string `json:"email,omitempty"`
}

type ShippingDetailsRequest struct {
	Address         string          `json:"address"`
	City            string          `json:"city"`
	State           string          `json:"state"`
	Pincode         string          `json:"pincode"`
	ShippingMethod  string          `json:"shipping_method"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	ExtraField1     *string         `json:"extra_field_1,omitempty"`
	ExtraField2     *string         `json:"extra_field_2,omitempty"`
	DeliveryPerson  *string         `json:"delivery_person,omitempty"`
	DeliveryContact *string         `json:"delivery_contact,omitempty"`
	DeliveryStatus  *string         `json:"delivery_status,omitempty"`
	DeliveryNotes   *string         `json:"delivery_notes,omitempty"`
}

// OrderRequest carries raw order data only. Totals are never accepted
// from the caller; the server recomputes them.
type OrderRequest struct {
	OrderType string             `json:"order_type" binding:"required"`
	BranchID  int64              `json:"branch_id" binding:"required"`
	Items     []OrderItemRequest `json:"items" binding:"required,min=1"`

	ClientID      *int64                `json:"client_id,omitempty"`
	ClientDetails *ClientDetailsRequest `json:"client_details,omitempty"`

	DiscountType      string          `json:"discount_type,omitempty"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	PromoCode         *string         `json:"promo_code,omitempty"`
	ReferenceName     *string         `json:"reference_name,omitempty"`
	DiscountNarration *string         `json:"discount_narration,omitempty"`

	TaxRate *decimal.Decimal `json:"tax_rate,omitempty"`

	Shipping *ShippingDetailsRequest `json:"shipping_details,omitempty"`

	AdvancePayment decimal.Decimal `json:"advance_payment"`
	PaymentMethod  *string         `json:"payment_method,omitempty"`
	PaymentStatus  string          `json:"payment_status,omitempty"`
	PaymentNotes   *string         `json:"payment_notes,omitempty"`
}

// -- Conversions --

func (r OrderRequest) toItems() []pricing.ItemInput {
	items := make([]pricing.ItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		input := pricing.ItemInput{
			FabricMeters: it.FabricMeters,
			Quantity:     it.Quantity,
			Alteration:   it.Alteration,
			Handwork:     it.Handwork,
			OtherCharges: it.OtherCharges,
			Measurements: it.Measurements,
		}
		if it.ItemTypeID != nil {
			input.ItemTypeID = *it.ItemTypeID
		}
		if it.FabricID != nil {
			input.FabricID = *it.FabricID
		}
		if it.StyleID != nil {
			input.StyleID = *it.StyleID
		}
		if it.DesignNumber != nil {
			input.DesignNumber = *it.DesignNumber
		}
		if it.Description != nil {
			input.Description = *it.Description
		}
		if it.ClientOrderNumber != nil {
			input.ClientOrderNumber = *it.ClientOrderNumber
		}
		items = append(items, input)
	}
	return items
}

func (r OrderRequest) toOrderInput(items []pricing.ItemInput) pricing.OrderInput {
	input := pricing.OrderInput{
		OrderType:      pricing.OrderType(r.OrderType),
		Items:          items,
		DiscountType:   pricing.DiscountType(r.DiscountType),
		DiscountValue:  r.DiscountValue,
		TaxRate:        r.TaxRate,
		AdvancePayment: r.AdvancePayment,
	}
	if r.Shipping != nil {
		input.ShippingCost = r.Shipping.ShippingCost
	}
	return input
}

func (r OrderRequest) toValidatorOrder(items []pricing.ItemInput) validate.Order {
	order := validate.Order{
		OrderType:         pricing.OrderType(r.OrderType),
		BranchID:          r.BranchID,
		UseExistingClient: r.ClientID != nil,
		Items:             items,
		DiscountType:      pricing.DiscountType(r.DiscountType),
		DiscountValue:     r.DiscountValue,
		AdvancePayment:    r.AdvancePayment,
		PaymentStatus:     pricing.PaymentStatus(r.PaymentStatus),
	}
	if r.Shipping != nil {
		order.ShippingCost = r.Shipping.ShippingCost
	}
	if r.ClientID != nil {
		order.ClientID = *r.ClientID
	}
	if r.ClientDetails != nil {
		order.Client = validate.ClientDetails{
			Name:    r.ClientDetails.Name,
			Mobile:  r.ClientDetails.Mobile,
			Address: r.ClientDetails.Address,
			City:    r.ClientDetails.City,
			State:   r.ClientDetails.State,
			Pincode: r.ClientDetails.Pincode,
			GSTIN:   r.ClientDetails.GSTIN,
			PAN:     r.ClientDetails.PAN,
			Email:   r.ClientDetails.Email,
		}
	}
	if r.Shipping != nil {
		order.Shipping = validate.ShippingInput{
			Method: pricing.ShippingMethod(r.Shipping.ShippingMethod),
		}
		if r.Shipping.ExtraField1 != nil {
			order.Shipping.ExtraField1 = *r.Shipping.ExtraField1
		}
		if r.Shipping.ExtraField2 != nil {
			order.Shipping.ExtraField2 = *r.Shipping.ExtraField2
		}
	}
	return order
}

// TotalsPayload renders OrderTotals for API responses: exact decimal
// strings for machines, rupee-formatted strings for display.
func TotalsPayload(totals pricing.OrderTotals) gin.H {
	return gin.H{
		"subtotal":        totals.Subtotal.StringFixed(2),
		"discount_amount": totals.DiscountAmount.StringFixed(2),
		"taxable_amount":  totals.TaxableAmount.StringFixed(2),
		"shipping_cost":   totals.ShippingCost.StringFixed(2),
		"tax_amount":      totals.TaxAmount.StringFixed(2),
		"total_amount":    totals.TotalAmount.StringFixed(2),
		"advance_amount":  totals.AdvanceAmount.StringFixed(2),
		"balance_amount":  totals.BalanceAmount.StringFixed(2),
		"item_breakdowns": totals.ItemBreakdowns,
		"display": gin.H{
			"subtotal":       pricing.FormatINR(totals.Subtotal),
			"total_amount":   pricing.FormatINR(totals.TotalAmount),
			"balance_amount": pricing.FormatINR(totals.BalanceAmount),
		},
	}
}

// priceRequest runs validation and pricing for an order request. The
// failure responses are written to the context; the boolean reports
// whether the caller may proceed.
func (h *OrdersHandler) priceRequest(c *gin.Context, req OrderRequest, opts validate.Options) (pricing.OrderInput, pricing.OrderTotals, bool) {
	items := req.toItems()

	if failures := validate.Check(req.toValidatorOrder(items), opts); len(failures) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":  false,
			"message":  "Order validation failed",
			"failures": failures,
		})
		return pricing.OrderInput{}, pricing.OrderTotals{}, false
	}

	snapshot, err := h.catalog.BuildSnapshot(c.Request.Context(), items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return pricing.OrderInput{}, pricing.OrderTotals{}, false
	}

	input := req.toOrderInput(items)
	totals := pricing.ComputeTotals(input, snapshot, h.pricingConfig())

	if len(totals.UnpricedItems) > 0 {
		failures := make([]gin.H, 0, len(totals.UnpricedItems))
		for _, idx := range totals.UnpricedItems {
			failures = append(failures, gin.H{
				"item_index": idx,
				"message":    fmt.Sprintf("Could not price item %d: %s", idx+1, totals.ItemBreakdowns[idx].UnpricedReason),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":  false,
			"message":  "Some items could not be priced",
			"failures": failures,
		})
		return pricing.OrderInput{}, pricing.OrderTotals{}, false
	}

	return input, totals, true
}

// EstimateOrder prices an order without persisting anything. It backs
// the live form estimator with the same computation the submission
// and invoice paths run.
func (h *OrdersHandler) EstimateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	_, totals, ok := h.priceRequest(c, req, validate.Options{})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"totals":  TotalsPayload(totals),
	})
}

func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	input, totals, ok := h.priceRequest(c, req, validate.Options{})
	if !ok {
		return
	}

	order := h.buildOrderRecord(req, input, totals)

	tx := h.db.Begin()
	orderNumber, err := h.generateOrderNumber(tx)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to allocate order number"})
		return
	}
	order.OrderNumber = orderNumber
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"totals":       TotalsPayload(totals),
	})
}

// UpdateOrder replaces an order's content and recomputes its totals.
// This flow enforces the stricter fabric-meter minimum.
func (h *OrdersHandler) UpdateOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	var existing models.Order
	if err := h.db.Where("id = ?", id).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	var billCount int64
	h.db.Model(&models.Bill{}).Where("order_id = ?", id).Count(&billCount)
	if billCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Order already invoiced; amounts are frozen"})
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	input, totals, ok := h.priceRequest(c, req, validate.Options{MinFabricMeters: h.cfg.Pricing.UpdateMinMeters})
	if !ok {
		return
	}

	order := h.buildOrderRecord(req, input, totals)
	order.ID = existing.ID
	order.OrderNumber = existing.OrderNumber
	order.CreatedAt = existing.CreatedAt

	tx := h.db.Begin()
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order"})
		return
	}
	if err := tx.Where("order_id = ?", id).Delete(&models.ShippingDetail{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order"})
		return
	}
	if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"totals":       TotalsPayload(totals),
	})
}

func (h *OrdersHandler) buildOrderRecord(req OrderRequest, input pricing.OrderInput, totals pricing.OrderTotals) models.Order {
	taxRate := h.cfg.Pricing.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	discountType := req.DiscountType
	if discountType == "" {
		discountType = string(pricing.DiscountPercentage)
	}
	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = string(pricing.PaymentPending)
	}

	order := models.Order{
		OrderType: req.OrderType,
		BranchId:  req.BranchID,

		ClientId: req.ClientID,

		DiscountType:      discountType,
		DiscountValue:     req.DiscountValue.StringFixed(2),
		PromoCode:         req.PromoCode,
		ReferenceName:     req.ReferenceName,
		DiscountNarration: req.DiscountNarration,

		TaxRate: taxRate.StringFixed(2),

		AdvancePayment: req.AdvancePayment.StringFixed(2),
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  paymentStatus,
		PaymentNotes:   req.PaymentNotes,

		Subtotal:       totals.Subtotal.StringFixed(2),
		DiscountAmount: totals.DiscountAmount.StringFixed(2),
		TaxableAmount:  totals.TaxableAmount.StringFixed(2),
		TaxAmount:      totals.TaxAmount.StringFixed(2),
		TotalAmount:    totals.TotalAmount.StringFixed(2),
		BalanceAmount:  totals.BalanceAmount.StringFixed(2),
	}

	if req.ClientDetails != nil {
		order.ClientName = req.ClientDetails.Name
		order.ClientMobile = req.ClientDetails.Mobile
		order.ClientAddress = req.ClientDetails.Address
		order.ClientCity = req.ClientDetails.City
		order.ClientState = req.ClientDetails.State
		order.ClientPincode = req.ClientDetails.Pincode
		if req.ClientDetails.GSTIN != "" {
			order.ClientGSTIN = &req.ClientDetails.GSTIN
		}
		if req.ClientDetails.PAN != "" {
			order.ClientPAN = &req.ClientDetails.PAN
		}
		if req.ClientDetails.Email != "" {
			order.ClientEmail = &req.ClientDetails.Email
		}
	}

	order.Items = make([]models.OrderItem, 0, len(input.Items))
	for i, item := range input.Items {
		quantity := totals.ItemBreakdowns[i].Quantity
		record := models.OrderItem{
			FabricMeters: item.FabricMeters.StringFixed(2),
			Quantity:     quantity,
			Alteration:   item.Alteration.StringFixed(2),
			Handwork:     item.Handwork.StringFixed(2),
			OtherCharges: item.OtherCharges.StringFixed(2),
		}
		if item.ItemTypeID != 0 {
			id := item.ItemTypeID
			record.ItemTypeId = &id
		}
		if item.FabricID != 0 {
			id := item.FabricID
			record.FabricId = &id
		}
		if item.StyleID != 0 {
			id := item.StyleID
			record.StyleId = &id
		}
		record.DesignNumber = req.Items[i].DesignNumber
		record.Description = req.Items[i].Description
		record.ClientOrderNumber = req.Items[i].ClientOrderNumber
		if len(item.Measurements) > 0 {
			measurements := make(models.MeasurementMap, len(item.Measurements))
			for field, value := range item.Measurements {
				measurements[field], _ = value.Float64()
			}
			record.Measurements = measurements
		}
		order.Items = append(order.Items, record)
	}

	if req.Shipping != nil {
		order.Shipping = &models.ShippingDetail{
			Address:         req.Shipping.Address,
			City:            req.Shipping.City,
			State:           req.Shipping.State,
			Pincode:         req.Shipping.Pincode,
			ShippingMethod:  req.Shipping.ShippingMethod,
			ShippingCost:    req.Shipping.ShippingCost.StringFixed(2),
			ExtraField1:     req.Shipping.ExtraField1,
			ExtraField2:     req.Shipping.ExtraField2,
			DeliveryPerson:  req.Shipping.DeliveryPerson,
			DeliveryContact: req.Shipping.DeliveryContact,
			DeliveryStatus:  req.Shipping.DeliveryStatus,
			DeliveryNotes:   req.Shipping.DeliveryNotes,
		}
	}

	return order
}

func (h *OrdersHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	var order models.Order
	query := h.db.
		Preload("Items").
		Preload("Items.ItemType").
		Preload("Items.Fabric").
		Preload("Items.Style").
		Preload("Shipping").
		Preload("Branch").
		Preload("Client")
	if err := query.Where("id = ?", id).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *OrdersHandler) ListOrders(c *gin.Context) {
	page := 1
	limit := 20
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.Order{})
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if orderType := c.Query("order_type"); orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("Shipping").
		Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
