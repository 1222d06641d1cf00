package locations

import (
	"sort"
	"strings"

	"vetgateway/models"
)

type recordKind int

// Ordered by location precedence; a higher kind overrides a lower one.
const (
	kindInventory recordKind = iota
	kindPurchaseOrder
	kindReceived
	kindHistory
)

func (k recordKind) source() string {
	switch k {
	case kindPurchaseOrder:
		return SourcePurchaseOrder
	case kindReceived:
		return SourceReceived
	case kindHistory:
		return SourceHistory
	default:
		return SourceInventory
	}
}

// sourceRecord is a row from any of the four collections, flattened so the
// merge is a single reduce.
type sourceRecord struct {
	kind            recordKind
	id              string
	productID       string
	product         *models.ProductRef
	batchNumber     string
	quantity        float64
	ordered         float64
	location        *string
	shelf           *string
	bin             *string
	expiry          *models.Date
	receivedDate    *models.Date
	unitCost        float64
	supplierName    string
	orderNumber     string
	purchaseOrderID string
}

func flatten(src Sources) []sourceRecord {
	out := make([]sourceRecord, 0, len(src.Inventory)+len(src.Received)+len(src.History))
	for _, it := range src.Inventory {
		out = append(out, sourceRecord{
			kind:         kindInventory,
			id:           it.ID,
			productID:    it.ProductID,
			product:      it.Product,
			batchNumber:  it.BatchNumber,
			quantity:     it.QuantityOnHand,
			location:     it.Location,
			expiry:       it.ExpirationDate,
			receivedDate: it.ReceivedDate,
			unitCost:     it.UnitCost,
		})
	}
	for _, po := range src.PurchaseOrders {
		if po.Status == models.POStatusCancelled {
			continue
		}
		for _, line := range po.Items {
			if strings.TrimSpace(line.BatchNumber) == "" {
				continue
			}
			out = append(out, sourceRecord{
				kind:            kindPurchaseOrder,
				id:              line.ID,
				productID:       line.ProductID,
				product:         line.Product,
				batchNumber:     line.BatchNumber,
				quantity:        line.QuantityReceived,
				ordered:         line.QuantityOrdered,
				unitCost:        line.UnitCost,
				supplierName:    po.SupplierName(),
				orderNumber:     po.OrderNumber,
				purchaseOrderID: po.ID,
			})
		}
	}
	receivedRecord := func(kind recordKind, it models.ReceivedItem) sourceRecord {
		return sourceRecord{
			kind:            kind,
			id:              it.ID,
			productID:       it.ProductID,
			product:         it.Product,
			batchNumber:     it.BatchNumber,
			quantity:        it.QuantityReceived,
			shelf:           it.Shelf,
			bin:             it.Bin,
			expiry:          it.ExpiryDate,
			receivedDate:    it.ReceivedDate,
			unitCost:        it.UnitCost,
			supplierName:    it.SupplierName,
			orderNumber:     it.OrderNumber,
			purchaseOrderID: it.PurchaseOrderID,
		}
	}
	for _, it := range src.Received {
		out = append(out, receivedRecord(kindReceived, it))
	}
	for _, it := range src.History {
		out = append(out, receivedRecord(kindHistory, it))
	}
	return out
}

type batchAcc struct {
	BatchData
	rank          recordKind
	located       bool
	inventoryQty  float64
	receivedQty   float64
	historyQty    float64
	poReceivedQty float64
}

func BatchKey(productID, batchNumber string) string {
	return productID + "-" + batchNumber
}

// Merge reconciles the four collections into one row per product batch,
// sorted newest received first. Location fields follow source precedence
// (history, received, purchase order, inventory) regardless of input order.
func Merge(src Sources) []BatchData {
	accs := make(map[string]*batchAcc)
	for _, rec := range flatten(src) {
		key := BatchKey(rec.productID, rec.batchNumber)
		acc, ok := accs[key]
		if !ok {
			acc = &batchAcc{BatchData: BatchData{
				Key:              key,
				ProductID:        rec.productID,
				BatchNumber:      rec.batchNumber,
				InventoryItemIDs: []string{},
			}}
			accs[key] = acc
		}
		acc.apply(rec)
	}

	out := make([]BatchData, 0, len(accs))
	for _, acc := range accs {
		out = append(out, acc.finish())
	}
	SortBatches(out)
	return out
}

func (a *batchAcc) apply(rec sourceRecord) {
	if a.ProductName == "" {
		a.ProductName = models.ProductName(rec.product)
	}
	if a.ProductNumber == "" {
		a.ProductNumber = models.ProductNumber(rec.product)
	}
	if a.UnitCost == 0 && rec.unitCost > 0 {
		a.UnitCost = rec.unitCost
	}
	if rec.expiry.Valid() && (!a.ExpirationDate.Valid() || rec.expiry.Day().Before(a.ExpirationDate.Day())) {
		a.ExpirationDate = rec.expiry
	}
	if rec.receivedDate.Valid() && (!a.ReceivedDate.Valid() || rec.receivedDate.Day().After(a.ReceivedDate.Day())) {
		a.ReceivedDate = rec.receivedDate
	}
	if a.SupplierName == "" {
		a.SupplierName = rec.supplierName
	}
	if a.OrderNumber == "" {
		a.OrderNumber = rec.orderNumber
	}
	if a.PurchaseOrderID == "" {
		a.PurchaseOrderID = rec.purchaseOrderID
	}

	switch rec.kind {
	case kindInventory:
		a.IsInventoryItem = true
		a.InventoryItemIDs = append(a.InventoryItemIDs, rec.id)
		a.inventoryQty += rec.quantity
		if loc := nonEmpty(rec.location); loc != nil {
			shelf, bin := SplitLocation(*loc)
			a.claim(rec.kind, *loc, shelf, bin)
		}
	case kindPurchaseOrder:
		a.IsPurchaseOrderItem = true
		a.QuantityOrdered += rec.ordered
		a.poReceivedQty += rec.quantity
		if loc := nonEmpty(rec.location); loc != nil {
			shelf, bin := SplitLocation(*loc)
			a.claim(rec.kind, *loc, shelf, bin)
		}
	case kindReceived, kindHistory:
		if rec.kind == kindReceived {
			a.IsReceivedItem = true
			a.receivedQty += rec.quantity
			if a.ReceivedItemID == "" {
				a.ReceivedItemID = rec.id
			}
		} else {
			a.IsHistoryItem = true
			a.historyQty += rec.quantity
			if a.HistoryItemID == "" {
				a.HistoryItemID = rec.id
			}
		}
		shelf, bin := nonEmpty(rec.shelf), nonEmpty(rec.bin)
		if shelf == nil || bin == nil {
			return
		}
		if a.claim(rec.kind, *shelf+"-"+*bin, shelf, bin) {
			if rec.kind == kindReceived {
				a.ReceivedItemID = rec.id
			} else {
				a.HistoryItemID = rec.id
			}
		}
	}
}

// claim records a location unless a source of equal or higher precedence
// already supplied one.
func (a *batchAcc) claim(kind recordKind, location string, shelf, bin *string) bool {
	if a.located && kind <= a.rank {
		return false
	}
	a.located = true
	a.rank = kind
	a.Location = &location
	a.Shelf = shelf
	a.Bin = bin
	a.LocationSource = kind.source()
	return true
}

func (a *batchAcc) finish() BatchData {
	b := a.BatchData
	switch {
	case a.IsInventoryItem:
		b.TotalQuantity = a.inventoryQty
	case a.IsReceivedItem:
		b.TotalQuantity = a.receivedQty
	case a.IsHistoryItem:
		b.TotalQuantity = a.historyQty
	default:
		b.TotalQuantity = a.poReceivedQty
	}
	switch {
	case a.IsPurchaseOrderItem:
		b.QuantityReceived = a.poReceivedQty
	case a.IsReceivedItem:
		b.QuantityReceived = a.receivedQty
	default:
		b.QuantityReceived = a.historyQty
	}
	return b
}

// SplitLocation parses a legacy "shelf-bin" string at its first dash.
func SplitLocation(location string) (shelf, bin *string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}
	s, b, found := strings.Cut(location, "-")
	s = strings.TrimSpace(s)
	if s != "" {
		shelf = &s
	}
	if found {
		b = strings.TrimSpace(b)
		if b != "" {
			bin = &b
		}
	}
	return shelf, bin
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// SortBatches orders by received day descending, dated rows first, then by
// batch number.
func SortBatches(batches []BatchData) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		ad, bd := a.ReceivedDate.Valid(), b.ReceivedDate.Valid()
		switch {
		case ad && bd && !a.ReceivedDate.Day().Equal(b.ReceivedDate.Day()):
			return a.ReceivedDate.Day().After(b.ReceivedDate.Day())
		case ad != bd:
			return ad
		}
		if a.BatchNumber != b.BatchNumber {
			return a.BatchNumber < b.BatchNumber
		}
		return a.Key < b.Key
	})
}
