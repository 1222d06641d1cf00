package models

// ProductRef is the product summary embedded in clinic API records.
type ProductRef struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	ProductNumber string `json:"productNumber,omitempty"`
}

// SupplierRef is the supplier summary embedded in purchase orders.
type SupplierRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Supplier as returned by GET /api/Supplier/{id}.
type Supplier struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// InventoryItem is one stock row held by the clinic API.
type InventoryItem struct {
	ID             string      `json:"id"`
	ClinicID       string      `json:"clinicId,omitempty"`
	ProductID      string      `json:"productId"`
	Product        *ProductRef `json:"product,omitempty"`
	BatchNumber    string      `json:"batchNumber"`
	QuantityOnHand float64     `json:"quantityOnHand"`
	Location       *string     `json:"location"`
	ExpirationDate *Date       `json:"expirationDate"`
	ReceivedDate   *Date       `json:"receivedDate"`
	UnitCost       float64     `json:"unitCost"`
	Notes          *string     `json:"notes,omitempty"`
}

// Purchase order statuses.
const (
	POStatusPending   = "pending"
	POStatusOrdered   = "ordered"
	POStatusPartial   = "partial"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// PurchaseOrder as exchanged with the clinic API.
type PurchaseOrder struct {
	ID                   string              `json:"id,omitempty"`
	OrderNumber          string              `json:"orderNumber,omitempty"`
	ClinicID             string              `json:"clinicId,omitempty"`
	SupplierID           string              `json:"supplierId"`
	Supplier             *SupplierRef        `json:"supplier,omitempty"`
	Status               string              `json:"status,omitempty"`
	OrderDate            *Date               `json:"orderDate,omitempty"`
	ExpectedDeliveryDate *Date               `json:"expectedDeliveryDate,omitempty"`
	DiscountPercentage   float64             `json:"discountPercentage"`
	DiscountedAmount     float64             `json:"discountedAmount"`
	ExtendedAmount       float64             `json:"extendedAmount"`
	TotalAmount          float64             `json:"totalAmount"`
	TaxAmount            float64             `json:"taxAmount"`
	Notes                string              `json:"notes,omitempty"`
	Items                []PurchaseOrderItem `json:"items"`
}

// SupplierName returns the embedded supplier name, if any.
func (po PurchaseOrder) SupplierName() string {
	if po.Supplier == nil {
		return ""
	}
	return po.Supplier.Name
}

// PurchaseOrderItem is one ordered line.
type PurchaseOrderItem struct {
	ID                 string      `json:"id,omitempty"`
	PurchaseOrderID    string      `json:"purchaseOrderId,omitempty"`
	ProductID          string      `json:"productId"`
	Product            *ProductRef `json:"product,omitempty"`
	QuantityOrdered    float64     `json:"quantityOrdered"`
	QuantityReceived   float64     `json:"quantityReceived"`
	UnitCost           float64     `json:"unitCost"`
	BatchNumber        string      `json:"batchNumber,omitempty"`
	DiscountPercentage float64     `json:"discountPercentage"`
	DiscountedAmount   float64     `json:"discountedAmount"`
	ExtendedAmount     float64     `json:"extendedAmount"`
	TaxAmount          float64     `json:"taxAmount"`
	TotalAmount        float64     `json:"totalAmount"`
}

// ReceivedItem is what was physically received against a purchase order
// line. Receiving-history rows share the same shape.
type ReceivedItem struct {
	ID                  string      `json:"id"`
	PurchaseOrderID     string      `json:"purchaseOrderId,omitempty"`
	PurchaseOrderItemID string      `json:"purchaseOrderItemId,omitempty"`
	OrderNumber         string      `json:"orderNumber,omitempty"`
	SupplierName        string      `json:"supplierName,omitempty"`
	ProductID           string      `json:"productId"`
	Product             *ProductRef `json:"product,omitempty"`
	QuantityReceived    float64     `json:"quantityReceived"`
	BatchNumber         string      `json:"batchNumber"`
	LotNumber           string      `json:"lotNumber,omitempty"`
	Barcode             string      `json:"barcode,omitempty"`
	ExpiryDate          *Date       `json:"expiryDate"`
	DateOfManufacture   *Date       `json:"dateOfManufacture"`
	ReceivedDate        *Date       `json:"receivedDate"`
	UnitCost            float64     `json:"unitCost,omitempty"`
	Shelf               *string     `json:"shelf"`
	Bin                 *string     `json:"bin"`
}

// ProductName returns a display name for an optional product reference.
func ProductName(p *ProductRef) string {
	if p == nil {
		return ""
	}
	return p.Name
}

// ProductNumber returns the product number for an optional product reference.
func ProductNumber(p *ProductRef) string {
	if p == nil {
		return ""
	}
	return p.ProductNumber
}
