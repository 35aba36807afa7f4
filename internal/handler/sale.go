package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type SaleHandler struct {
	Repo     repository.SaleRepository
	Currency string
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales", h.list)
	r.Get("/sales/export", h.export)
	r.Post("/sales", h.create)
}

func (h SaleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessUnitID *int64 `json:"businessUnitId"`
		Date           string `json:"date"`
		Amount         int64  `json:"amount"`
		CashAmount     int64  `json:"cashAmount"`
		CardAmount     int64  `json:"cardAmount"`
		TransferAmount int64  `json:"transferAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	actor := authctx.FromContext(r.Context())
	unitID := int64(0)
	switch {
	case req.BusinessUnitID != nil:
		unitID = *req.BusinessUnitID
	case actor != nil && actor.BusinessUnitID != nil:
		unitID = *actor.BusinessUnitID
	}

	dt, err := parseDateField("date", req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sale := domain.Sale{
		BusinessUnitID: unitID,
		Date:           dt,
		Amount:         domain.Money{Amount: req.Amount, Currency: h.Currency},
		CashAmount:     req.CashAmount,
		CardAmount:     req.CardAmount,
		TransferAmount: req.TransferAmount,
	}
	if err := domain.ValidateSale(sale); err != nil {
		writeDomainError(w, err)
		return
	}

	var recordedBy *int64
	if actor != nil {
		recordedBy = &actor.ID
	}
	saved, err := h.Repo.Create(r.Context(), repository.CreateSaleInput{
		BusinessUnitID: unitID,
		Date:           dt,
		Amount:         req.Amount,
		CashAmount:     req.CashAmount,
		CardAmount:     req.CardAmount,
		TransferAmount: req.TransferAmount,
		RecordedBy:     recordedBy,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saleJSON(*saved))
}

func (h SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := saleFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, saleJSON(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	filter, err := saleFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Limit = 5000
	items, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if filter.StartDate != nil && filter.EndDate != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", filter.StartDate.Format("20060102"), filter.EndDate.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := exportSalesCSV(items)
		if err != nil {
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to export sales", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"sales_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportSalesXLSX(items)
		if err != nil {
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to export sales", err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"sales_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func saleFilterFromQuery(r *http.Request) (repository.SaleFilter, error) {
	var f repository.SaleFilter
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		return f, err
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		return f, err
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return f, domain.ValidationErrorf("startDate", "must be before endDate")
	}
	f.StartDate = startDate
	f.EndDate = endDate
	if v := r.URL.Query().Get("unitId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, domain.ValidationErrorf("unitId", "must be an integer id")
		}
		f.BusinessUnitID = &id
	}
	return f, nil
}

func exportSalesCSV(items []domain.Sale) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "business_unit_id", "date", "amount", "cash", "card", "transfer"})
	for _, s := range items {
		_ = w.Write([]string{
			strconv.FormatInt(s.ID, 10),
			strconv.FormatInt(s.BusinessUnitID, 10),
			s.Date.Format(dateLayout),
			strconv.FormatInt(s.Amount.Amount, 10),
			strconv.FormatInt(s.CashAmount, 10),
			strconv.FormatInt(s.CardAmount, 10),
			strconv.FormatInt(s.TransferAmount, 10),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportSalesXLSX(items []domain.Sale) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Sales"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Business Unit", "Date", "Amount", "Cash", "Card", "Transfer"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, s := range items {
		row := r + 2
		values := []any{
			s.ID,
			s.BusinessUnitID,
			s.Date.Format(dateLayout),
			s.Amount.Amount,
			s.CashAmount,
			s.CardAmount,
			s.TransferAmount,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "B", 16)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "G", 14)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "G1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func saleJSON(s domain.Sale) map[string]any {
	return map[string]any{
		"id":             s.ID,
		"businessUnitId": s.BusinessUnitID,
		"date":           s.Date.Format(dateLayout),
		"amount":         s.Amount.Amount,
		"cashAmount":     s.CashAmount,
		"cardAmount":     s.CardAmount,
		"transferAmount": s.TransferAmount,
		"recordedBy":     s.RecordedBy,
	}
}
