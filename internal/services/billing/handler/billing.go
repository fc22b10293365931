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

// billStatusTransitions is the legal status graph. Amounts never
// change; only these administrative moves are allowed.
var billStatusTransitions = map[string][]string{
	models.BillStatusDraft:     {models.BillStatusGenerated, models.BillStatusCancelled},
	models.BillStatusGenerated: {models.BillStatusSent, models.BillStatusPaid, models.BillStatusCancelled},
	models.BillStatusSent:      {models.BillStatusPaid, models.BillStatusCancelled},
	models.BillStatusPaid:      {},
	models.BillStatusCancelled: {},
}

type BillingHandler struct {
	db      *gorm.DB
	catalog *catalog.CatalogHandler
	cfg     config.Config
}

func NewBillingHandler(db *gorm.DB, catalogHandler *catalog.CatalogHandler, cfg config.Config) *BillingHandler {
	return &BillingHandler{
		db:      db,
		catalog: catalogHandler,
		cfg:     cfg,
	}
}

// billNumberLockKey serializes bill-number assignment across
// concurrent transactions. Released automatically at commit/rollback.
const billNumberLockKey = 420001

// Helper to generate bill number: B-YYYYMMDD-SEQ
func (h *BillingHandler) generateBillNumber(tx *gorm.DB) (string, error) {
	dateStr := time.Now().Format("20060102")

	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", billNumberLockKey).Error; err != nil {
		return "", err
	}

	var lastBill models.Bill
	if err := tx.Order("id desc").First(&lastBill).Error; err != nil && err != gorm.ErrRecordNotFound {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", h.cfg.Billing.BillPrefix, dateStr, lastBill.ID+1), nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// billLines snapshots the computed item breakdown into the form frozen
// on the bill record.
func billLines(breakdowns []pricing.LineBreakdown) models.BillLines {
	lines := make(models.BillLines, 0, len(breakdowns))
	for _, b := range breakdowns {
		line := models.BillLine{
			ItemName:   b.ItemName,
			Quantity:   b.Quantity,
			UnitPrice:  b.UnitPrice.StringFixed(2),
			TotalPrice: b.TotalPrice.StringFixed(2),
		}
		for _, comp := range b.Components {
			line.Components = append(line.Components, models.BillLineComponent{
				Kind:     string(comp.Kind),
				Name:     comp.Name,
				Rate:     comp.Rate.StringFixed(2),
				Quantity: comp.Quantity.String(),
				Unit:     comp.Unit,
				Total:    comp.Total.StringFixed(2),
			})
		}
		lines = append(lines, line)
	}
	return lines
}

// orderPricingInput reconstructs the pricing input from the persisted
// order record. The stored totals columns are deliberately ignored.
func orderPricingInput(order models.Order) pricing.OrderInput {
	items := make([]pricing.ItemInput, 0, len(order.Items))
	for _, item := range order.Items {
		input := pricing.ItemInput{
			FabricMeters: dec(item.FabricMeters),
			Quantity:     item.Quantity,
			Alteration:   dec(item.Alteration),
			Handwork:     dec(item.Handwork),
			OtherCharges: dec(item.OtherCharges),
		}
		if item.ItemTypeId != nil {
			input.ItemTypeID = *item.ItemTypeId
		}
		if item.FabricId != nil {
			input.FabricID = *item.FabricId
		}
		if item.StyleId != nil {
			input.StyleID = *item.StyleId
		}
		items = append(items, input)
	}

	taxRate := dec(order.TaxRate)
	input := pricing.OrderInput{
		OrderType:      pricing.OrderType(order.OrderType),
		Items:          items,
		DiscountType:   pricing.DiscountType(order.DiscountType),
		DiscountValue:  dec(order.DiscountValue),
		TaxRate:        &taxRate,
		AdvancePayment: dec(order.AdvancePayment),
	}
	if order.Shipping != nil {
		input.ShippingCost = dec(order.Shipping.ShippingCost)
	}
	return input
}

func orderValidatorInput(order models.Order, items []pricing.ItemInput) validate.Order {
	v := validate.Order{
		OrderType:         pricing.OrderType(order.OrderType),
		BranchID:          order.BranchId,
		UseExistingClient: order.ClientId != nil,
		Items:             items,
		DiscountType:      pricing.DiscountType(order.DiscountType),
		DiscountValue:     dec(order.DiscountValue),
		AdvancePayment:    dec(order.AdvancePayment),
		PaymentStatus:     pricing.PaymentStatus(order.PaymentStatus),
	}
	if order.Shipping != nil {
		v.ShippingCost = dec(order.Shipping.ShippingCost)
	}
	if order.ClientId != nil {
		v.ClientID = *order.ClientId
	} else {
		v.Client = validate.ClientDetails{
			Name:    order.ClientName,
			Mobile:  order.ClientMobile,
			Address: order.ClientAddress,
			City:    order.ClientCity,
			State:   order.ClientState,
			Pincode: order.ClientPincode,
		}
		if order.ClientGSTIN != nil {
			v.Client.GSTIN = *order.ClientGSTIN
		}
	}
	if order.Shipping != nil {
		v.Shipping = validate.ShippingInput{
			Method: pricing.ShippingMethod(order.Shipping.ShippingMethod),
		}
		if order.Shipping.ExtraField1 != nil {
			v.Shipping.ExtraField1 = *order.Shipping.ExtraField1
		}
		if order.Shipping.ExtraField2 != nil {
			v.Shipping.ExtraField2 = *order.Shipping.ExtraField2
		}
	}
	return v
}

type GenerateBillRequest struct {
	DueDate *string `json:"due_date,omitempty"` // 2006-01-02
}

// GenerateBill is the invoice authority: it loads the persisted order,
// re-validates it, recomputes the totals from raw order data and
// freezes the result. Caller-supplied totals are never accepted. A
// second call for the same order returns the existing bill, so retries
// after a crash between order creation and billing are safe.
func (h *BillingHandler) GenerateBill(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	var req GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("Shipping").Preload("Branch").Preload("Client").
		Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	var existing models.Bill
	if err := h.db.Where("order_id = ?", orderID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Bill already generated for this order",
			"bill_id":     existing.ID,
			"bill_number": existing.BillNumber,
		})
		return
	}

	input := orderPricingInput(order)

	// An order that no longer passes validation must not be invoiced.
	if failures := validate.Check(orderValidatorInput(order, input.Items), validate.Options{}); len(failures) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success":  false,
			"message":  "Order failed validation; refusing to generate bill",
			"failures": failures,
		})
		return
	}

	snapshot, err := h.catalog.BuildSnapshot(c.Request.Context(), input.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	totals := pricing.ComputeTotals(input, snapshot, pricing.Config{
		DefaultTaxRate: h.cfg.Pricing.DefaultTaxRate,
		ClampDiscount:  h.cfg.Pricing.ClampDiscount,
		ClampBalance:   h.cfg.Pricing.ClampBalance,
	})
	if len(totals.UnpricedItems) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": fmt.Sprintf("Order has %d unpriceable item(s); refusing to generate bill", len(totals.UnpricedItems)),
		})
		return
	}

	billDate := time.Now()
	dueDate := billDate.AddDate(0, 0, h.cfg.Billing.DueDays)
	if req.DueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "due_date must be YYYY-MM-DD"})
			return
		}
		dueDate = parsed
	}

	bill := models.Bill{
		OrderId:  orderID,
		BillDate: billDate,
		DueDate:  &dueDate,

		Subtotal:       totals.Subtotal.StringFixed(2),
		DiscountAmount: totals.DiscountAmount.StringFixed(2),
		TaxableAmount:  totals.TaxableAmount.StringFixed(2),
		ShippingCost:   totals.ShippingCost.StringFixed(2),
		TaxAmount:      totals.TaxAmount.StringFixed(2),
		TotalAmount:    totals.TotalAmount.StringFixed(2),
		AdvanceAmount:  totals.AdvanceAmount.StringFixed(2),
		BalanceAmount:  totals.BalanceAmount.StringFixed(2),

		LineItems: billLines(totals.ItemBreakdowns),

		Status:      models.BillStatusGenerated,
		GeneratedBy: c.GetInt64("userID"),
	}

	tx := h.db.Begin()
	billNumber, err := h.generateBillNumber(tx)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to allocate bill number"})
		return
	}
	bill.BillNumber = billNumber
	if err := tx.Create(&bill).Error; err != nil {
		tx.Rollback()
		// The unique index on order_id catches a concurrent generation.
		if err := h.db.Where("order_id = ?", orderID).First(&existing).Error; err == nil {
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"message":     "Bill already generated for this order",
				"bill_id":     existing.ID,
				"bill_number": existing.BillNumber,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create bill record"})
		return
	}

	// Refresh the order's derived columns from the same computation
	// that was frozen on the bill.
	updates := map[string]interface{}{
		"subtotal":        totals.Subtotal.StringFixed(2),
		"discount_amount": totals.DiscountAmount.StringFixed(2),
		"taxable_amount":  totals.TaxableAmount.StringFixed(2),
		"tax_amount":      totals.TaxAmount.StringFixed(2),
		"total_amount":    totals.TotalAmount.StringFixed(2),
		"balance_amount":  totals.BalanceAmount.StringFixed(2),
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order totals"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"bill_id":     bill.ID,
		"bill_number": bill.BillNumber,
		"invoice":     h.invoicePayload(bill, order),
	})
}

// invoicePayload denormalizes everything the invoice document needs:
// parties, the frozen itemized breakdown, frozen totals, display
// formatting. Every amount comes off the bill record.
func (h *BillingHandler) invoicePayload(bill models.Bill, order models.Order) gin.H {
	client := gin.H{
		"name":    order.ClientName,
		"mobile":  order.ClientMobile,
		"address": order.ClientAddress,
		"city":    order.ClientCity,
		"state":   order.ClientState,
		"pincode": order.ClientPincode,
		"gstin":   order.ClientGSTIN,
	}
	if order.Client != nil {
		client = gin.H{
			"name":    order.Client.Name,
			"mobile":  order.Client.Mobile,
			"address": order.Client.Address,
			"city":    order.Client.City,
			"state":   order.Client.State,
			"pincode": order.Client.Pincode,
			"gstin":   order.Client.GSTIN,
		}
	}

	var branch gin.H
	if order.Branch != nil {
		branch = gin.H{
			"name":    order.Branch.BranchName,
			"address": order.Branch.Address,
			"city":    order.Branch.City,
			"phone":   order.Branch.Phone,
			"gstin":   order.Branch.GSTIN,
		}
	}

	return gin.H{
		"bill_number":  bill.BillNumber,
		"bill_date":    bill.BillDate.Format("2006-01-02"),
		"due_date":     bill.DueDate,
		"status":       bill.Status,
		"order_number": order.OrderNumber,
		"order_type":   order.OrderType,
		"client":       client,
		"branch":       branch,
		"items":        bill.LineItems,
		"totals": gin.H{
			"subtotal":        bill.Subtotal,
			"discount_amount": bill.DiscountAmount,
			"taxable_amount":  bill.TaxableAmount,
			"shipping_cost":   bill.ShippingCost,
			"tax_amount":      bill.TaxAmount,
			"total_amount":    bill.TotalAmount,
			"advance_amount":  bill.AdvanceAmount,
			"balance_amount":  bill.BalanceAmount,
		},
		"display": gin.H{
			"subtotal":       pricing.FormatINR(dec(bill.Subtotal)),
			"total_amount":   pricing.FormatINR(dec(bill.TotalAmount)),
			"advance_amount": pricing.FormatINR(dec(bill.AdvanceAmount)),
			"balance_amount": pricing.FormatINR(dec(bill.BalanceAmount)),
		},
	}
}

// GetBill returns the bill with its invoice-ready payload. Everything
// is read from frozen data; catalog changes made after generation do
// not show up on an issued invoice.
func (h *BillingHandler) GetBill(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid bill id"})
		return
	}

	var bill models.Bill
	if err := h.db.Where("id = ?", id).First(&bill).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	var order models.Order
	if err := h.db.Preload("Branch").Preload("Client").
		Where("id = ?", bill.OrderId).First(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bill":    bill,
		"invoice": h.invoicePayload(bill, order),
	})
}

func (h *BillingHandler) ListBills(c *gin.Context) {
	page := 1
	limit := 10
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.Bill{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	var bills []models.Bill
	if err := query.Preload("Order").Order("bill_date desc").
		Limit(limit).Offset(offset).Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch bills"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bills":   bills,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

type UpdateBillStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BillingHandler) UpdateBillStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid bill id"})
		return
	}

	var req UpdateBillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var bill models.Bill
	if err := h.db.Where("id = ?", id).First(&bill).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	allowed := false
	for _, next := range billStatusTransitions[bill.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": fmt.Sprintf("Cannot move bill from %s to %s", bill.Status, req.Status),
		})
		return
	}

	bill.Status = req.Status
	if err := h.db.Save(&bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update bill"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bill_id": bill.ID, "status": bill.Status})
}
