package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/excellent-grade/gradetest-api/internal/handler/helper"
)

// writeCSV streams rows as a CSV attachment with proper escaping of commas
// and quotes.
func writeCSV(c *gin.Context, filename string, headers []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM so Excel detects UTF-8.
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(headers)
	for _, row := range rows {
		writer.Write(row)
	}
}

// writeXLSX streams rows as an Excel attachment using a StreamWriter.
func writeXLSX(c *gin.Context, sheetName, filename string, headers []string, rows [][]string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[Export] failed to create stream writer: %v", err)
		helper.Message(c, http.StatusInternalServerError, "failed to create Excel file")
		return
	}

	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		log.Printf("[Export] failed to write headers: %v", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", i+2), cells); err != nil {
			log.Printf("[Export] failed to write row %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[Export] failed to flush stream writer: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[Export] failed to write Excel response: %v", err)
	}
}

// sanitizeForExcel guards exported cells against formula injection in
// Excel/LibreOffice.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
