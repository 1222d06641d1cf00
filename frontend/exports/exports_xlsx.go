package exports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vetgateway/frontend/inventory/locations"
	"vetgateway/models"
)

const dateLayout = "02/01/2006"

// writeWorkbook renders a single-sheet workbook to w.
func writeWorkbook(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet.Name, 1, 1, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheet.Name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return f.Write(w)
}

func batchSheet(batches []locations.BatchData) Sheet {
	s := Sheet{
		Name: "Batches",
		Header: []string{"Product", "Product No.", "Batch", "Quantity", "Ordered", "Received",
			"Shelf", "Bin", "Location", "Location Source", "Expiry", "Received Date", "Unit Cost", "Supplier", "Order No."},
	}
	for _, b := range batches {
		s.Rows = append(s.Rows, []any{
			b.ProductName, b.ProductNumber, b.BatchNumber, b.TotalQuantity, b.QuantityOrdered, b.QuantityReceived,
			deref(b.Shelf), deref(b.Bin), deref(b.Location), b.LocationSource,
			formatDate(b.ExpirationDate), formatDate(b.ReceivedDate), b.UnitCost, b.SupplierName, b.OrderNumber,
		})
	}
	return s
}

// purchaseOrderSheet writes one row per order line.
func purchaseOrderSheet(orders []models.PurchaseOrder) Sheet {
	s := Sheet{
		Name: "Purchase Orders",
		Header: []string{"Order No.", "Status", "Supplier", "Expected Delivery", "Product", "Batch",
			"Ordered", "Received", "Unit Cost", "Discount %", "Discount", "Extended", "Tax", "Total"},
	}
	for _, po := range orders {
		for _, it := range po.Items {
			s.Rows = append(s.Rows, []any{
				po.OrderNumber, po.Status, po.SupplierName(), formatDate(po.ExpectedDeliveryDate),
				models.ProductName(it.Product), it.BatchNumber, it.QuantityOrdered, it.QuantityReceived,
				it.UnitCost, it.DiscountPercentage, it.DiscountedAmount, it.ExtendedAmount, it.TaxAmount, it.TotalAmount,
			})
		}
	}
	return s
}

func stockSheet(items []models.InventoryItem) Sheet {
	s := Sheet{
		Name:   "Stock",
		Header: []string{"Product", "Product No.", "Batch", "On Hand", "Location", "Expiry", "Received Date", "Unit Cost", "Notes"},
	}
	for _, it := range items {
		s.Rows = append(s.Rows, []any{
			models.ProductName(it.Product), models.ProductNumber(it.Product), it.BatchNumber, it.QuantityOnHand,
			deref(it.Location), formatDate(it.ExpirationDate), formatDate(it.ReceivedDate), it.UnitCost, deref(it.Notes),
		})
	}
	return s
}

func formatDate(d *models.Date) string {
	if !d.Valid() {
		return ""
	}
	return d.Format(dateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
