package export

import (
	"errors"
	"fmt"

	"github.com/pbaille/kalorien/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Workbook file names and sheet names.
const (
	FoodFile   = "KalorienTracker_Essen.xlsx"
	WeightFile = "KalorienTracker_Gewicht.xlsx"
	AllFile    = "KalorienTracker_Komplett.xlsx"

	FoodSheet   = "Essenseinträge"
	WeightSheet = "Gewichtseinträge"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrNoFoodEntries   = errors.New("keine Essenseinträge zum Exportieren vorhanden")
	ErrNoWeightEntries = errors.New("keine Gewichtseinträge zum Exportieren vorhanden")
	ErrNoData          = errors.New("keine Daten zum Exportieren vorhanden")
)

type column[T any] struct {
	header string
	width  float64
	value  func(T) any
}

var foodColumns = []column[domain.FoodEntry]{
	{"id", 38, func(e domain.FoodEntry) any { return e.ID }},
	{"name", 30, func(e domain.FoodEntry) any { return e.Name }},
	{"date", 12, func(e domain.FoodEntry) any { return e.Date }},
	{"calories", 10, func(e domain.FoodEntry) any { return e.Calories }},
	{"protein", 10, func(e domain.FoodEntry) any { return e.Protein }},
	{"carbs", 10, func(e domain.FoodEntry) any { return e.Carbs }},
	{"fat", 10, func(e domain.FoodEntry) any { return e.Fat }},
	{"healthScore", 12, func(e domain.FoodEntry) any { return e.HealthScore }},
	{"notes", 40, func(e domain.FoodEntry) any { return e.Notes }},
}

var weightColumns = []column[domain.WeightEntry]{
	{"id", 38, func(e domain.WeightEntry) any { return e.ID }},
	{"date", 12, func(e domain.WeightEntry) any { return e.Date }},
	{"weight", 10, func(e domain.WeightEntry) any { return e.Weight }},
	{"notes", 40, func(e domain.WeightEntry) any { return e.Notes }},
}

// Food builds the food workbook. The caller closes the returned file.
func Food(entries []domain.FoodEntry) (*excelize.File, error) {
	if len(entries) == 0 {
		return nil, ErrNoFoodEntries
	}
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	if err := addSheet(wb, FoodSheet, foodColumns, entries); err != nil {
		wb.close()
		return nil, err
	}
	return wb.f, nil
}

// Weight builds the weight workbook.
func Weight(entries []domain.WeightEntry) (*excelize.File, error) {
	if len(entries) == 0 {
		return nil, ErrNoWeightEntries
	}
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	if err := addSheet(wb, WeightSheet, weightColumns, entries); err != nil {
		wb.close()
		return nil, err
	}
	return wb.f, nil
}

// All builds one workbook with a sheet per non-empty collection.
func All(food []domain.FoodEntry, weight []domain.WeightEntry) (*excelize.File, error) {
	if len(food) == 0 && len(weight) == 0 {
		return nil, ErrNoData
	}
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	if len(food) > 0 {
		if err := addSheet(wb, FoodSheet, foodColumns, food); err != nil {
			wb.close()
			return nil, err
		}
	}
	if len(weight) > 0 {
		if err := addSheet(wb, WeightSheet, weightColumns, weight); err != nil {
			wb.close()
			return nil, err
		}
	}
	return wb.f, nil
}

type workbook struct {
	f      *excelize.File
	sheets int
	header int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	return &workbook{f: f, header: header}, nil
}

func (wb *workbook) close() { _ = wb.f.Close() }

// addSheet writes a header row in column order followed by one row per
// entry. The first sheet replaces the workbook's default sheet.
func addSheet[T any](wb *workbook, name string, cols []column[T], rows []T) error {
	f := wb.f
	if wb.sheets == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("name sheet %s: %w", name, err)
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	wb.sheets++

	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, col.header); err != nil {
			return fmt.Errorf("write header %s: %w", col.header, err)
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, colName, colName, col.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetRowStyle(name, 1, 1, wb.header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetPanes(name, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for r, row := range rows {
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, col.value(row)); err != nil {
				return fmt.Errorf("write %s row %d: %w", name, r+1, err)
			}
		}
	}
	return nil
}
