// Package sheets wraps the Google Sheets API for lead export: schema setup,
// dropdown validation, a summary tab, and keyed row upserts.
package sheets

import (
	"context"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/lead-lab/leadlab/internal/model"
)

// API defines the Sheets operations used by this application.
type API interface {
	GetSpreadsheet(ctx context.Context) (*gsheets.Spreadsheet, error)
	BatchUpdate(ctx context.Context, reqs []*gsheets.Request) error
	GetValues(ctx context.Context, rng string) ([][]interface{}, error)
	UpdateValues(ctx context.Context, rng string, values [][]interface{}) error
	AppendValues(ctx context.Context, rng string, values [][]interface{}) error
}

// sheetsAPI implements API over a *gsheets.Service with request throttling.
// The Sheets API quota is 60 write requests per minute per user.
type sheetsAPI struct {
	svc           *gsheets.Service
	spreadsheetID string
	limiter       *rate.Limiter
}

// NewAPI creates an API bound to one spreadsheet, authenticated with a
// service-account JSON file.
func NewAPI(ctx context.Context, credentialsFile, spreadsheetID string) (API, error) {
	svc, err := gsheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, eris.Wrap(err, "sheets: create service")
	}
	return &sheetsAPI{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		limiter:       rate.NewLimiter(rate.Limit(1), 1),
	}, nil
}

func (a *sheetsAPI) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}

func (a *sheetsAPI) GetSpreadsheet(ctx context.Context) (*gsheets.Spreadsheet, error) {
	if err := a.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sheets: rate limit")
	}
	ss, err := a.svc.Spreadsheets.Get(a.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrap(err, "sheets: get spreadsheet")
	}
	return ss, nil
}

func (a *sheetsAPI) BatchUpdate(ctx context.Context, reqs []*gsheets.Request) error {
	if err := a.wait(ctx); err != nil {
		return eris.Wrap(err, "sheets: rate limit")
	}
	_, err := a.svc.Spreadsheets.BatchUpdate(a.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, "sheets: batch update")
	}
	return nil
}

func (a *sheetsAPI) GetValues(ctx context.Context, rng string) ([][]interface{}, error) {
	if err := a.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sheets: rate limit")
	}
	vr, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sheets: get values %s", rng))
	}
	return vr.Values, nil
}

func (a *sheetsAPI) UpdateValues(ctx context.Context, rng string, values [][]interface{}) error {
	if err := a.wait(ctx); err != nil {
		return eris.Wrap(err, "sheets: rate limit")
	}
	_, err := a.svc.Spreadsheets.Values.Update(a.spreadsheetID, rng, &gsheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("sheets: update values %s", rng))
	}
	return nil
}

func (a *sheetsAPI) AppendValues(ctx context.Context, rng string, values [][]interface{}) error {
	if err := a.wait(ctx); err != nil {
		return eris.Wrap(err, "sheets: rate limit")
	}
	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, &gsheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("sheets: append values %s", rng))
	}
	return nil
}

const validationTab = "_Validation"

// Exporter exports leads to one worksheet of a Google spreadsheet.
type Exporter struct {
	api       API
	worksheet string
}

// NewExporter creates an Exporter writing to the named worksheet.
func NewExporter(api API, worksheet string) *Exporter {
	if worksheet == "" {
		worksheet = "Leads"
	}
	return &Exporter{api: api, worksheet: worksheet}
}

// SetupSchema ensures the worksheet exists with the canonical header row
// styled bold and frozen, plus dropdown validation for Status and Category
// backed by a hidden validation tab.
func (e *Exporter) SetupSchema(ctx context.Context) error {
	sheetID, err := e.ensureWorksheet(ctx, e.worksheet)
	if err != nil {
		return err
	}
	if _, err := e.ensureWorksheet(ctx, validationTab); err != nil {
		return err
	}

	header, err := e.headerRow(ctx)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		header = model.Columns
		if err := e.api.UpdateValues(ctx, e.worksheet+"!1:1", toInterfaceRow(header)); err != nil {
			return err
		}
	} else if missing := missingColumns(header); len(missing) > 0 {
		header = append(header, missing...)
		if err := e.api.UpdateValues(ctx, e.worksheet+"!1:1", toInterfaceRow(header)); err != nil {
			return err
		}
	}

	if err := e.writeValidationLists(ctx); err != nil {
		return err
	}

	reqs := []*gsheets.Request{
		{
			UpdateSheetProperties: &gsheets.UpdateSheetPropertiesRequest{
				Properties: &gsheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &gsheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		{
			RepeatCell: &gsheets.RepeatCellRequest{
				Range: &gsheets.GridRange{
					SheetId:     sheetID,
					EndRowIndex: 1,
				},
				Cell: &gsheets.CellData{
					UserEnteredFormat: &gsheets.CellFormat{
						TextFormat: &gsheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat.bold",
			},
		},
	}
	if r := dropdownRequest(sheetID, header, "Status", statusList()); r != nil {
		reqs = append(reqs, r)
	}
	if r := dropdownRequest(sheetID, header, "Category", categoryList()); r != nil {
		reqs = append(reqs, r)
	}
	if err := e.api.BatchUpdate(ctx, reqs); err != nil {
		return err
	}

	zap.L().Info("sheet schema configured", zap.String("worksheet", e.worksheet))
	return nil
}

// EnsureBuckets creates or refreshes a Buckets tab with live count formulas
// over the Category and Status columns.
func (e *Exporter) EnsureBuckets(ctx context.Context) error {
	if _, err := e.ensureWorksheet(ctx, "Buckets"); err != nil {
		return err
	}
	header, err := e.headerRow(ctx)
	if err != nil {
		return err
	}
	catCol := columnLetter(indexOf(header, "Category"))
	statusCol := columnLetter(indexOf(header, "Status"))
	if catCol == "" || statusCol == "" {
		return eris.New("sheets: header missing Category or Status, run setup first")
	}

	catRange := fmt.Sprintf("%s!%s2:%s", e.worksheet, catCol, catCol)
	statusRange := fmt.Sprintf("%s!%s2:%s", e.worksheet, statusCol, statusCol)

	if err := e.api.UpdateValues(ctx, "Buckets!A1", [][]interface{}{
		{"Counts by Category"},
		{"Category", "Count"},
		{fmt.Sprintf("=UNIQUE(%s)", catRange), fmt.Sprintf("=ARRAYFORMULA(COUNTIF(%s, A3:A))", catRange)},
	}); err != nil {
		return err
	}
	if err := e.api.UpdateValues(ctx, "Buckets!D1", [][]interface{}{
		{"Counts by Status"},
		{"Status", "Count"},
		{fmt.Sprintf("=UNIQUE(%s)", statusRange), fmt.Sprintf("=ARRAYFORMULA(COUNTIF(%s, D3:D))", statusRange)},
	}); err != nil {
		return err
	}
	zap.L().Info("buckets tab ensured")
	return nil
}

// UpsertRows writes rows to the worksheet, updating in place where keyField
// matches an existing row and appending otherwise.
func (e *Exporter) UpsertRows(ctx context.Context, rows []map[string]string, keyField string) error {
	if len(rows) == 0 {
		zap.L().Info("sheets export: no rows to write")
		return nil
	}
	if keyField == "" {
		keyField = "Key"
	}

	header, err := e.headerRow(ctx)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		header = model.Columns
		if err := e.api.UpdateValues(ctx, e.worksheet+"!1:1", toInterfaceRow(header)); err != nil {
			return err
		}
	}

	keyIdx := indexOf(header, keyField)
	if keyIdx < 0 {
		return eris.Errorf("sheets: key column %s not in header", keyField)
	}

	existing, err := e.api.GetValues(ctx, e.worksheet)
	if err != nil {
		return err
	}
	index := make(map[string]int) // key -> 1-based sheet row
	for i, rec := range existing {
		if i == 0 {
			continue
		}
		if keyIdx < len(rec) {
			if k := fmt.Sprint(rec[keyIdx]); k != "" {
				index[k] = i + 1
			}
		}
	}

	updated, appended := 0, 0
	for _, row := range rows {
		values := make([]interface{}, len(header))
		for i, h := range header {
			values[i] = row[h]
		}
		key := row[keyField]
		if rownum, ok := index[key]; ok && key != "" {
			rng := fmt.Sprintf("%s!A%d:%s%d", e.worksheet, rownum, columnLetter(len(header)-1), rownum)
			if err := e.api.UpdateValues(ctx, rng, [][]interface{}{values}); err != nil {
				return err
			}
			updated++
		} else {
			if err := e.api.AppendValues(ctx, e.worksheet, [][]interface{}{values}); err != nil {
				return err
			}
			if key != "" {
				index[key] = len(existing) + appended + 1
			}
			appended++
		}
	}

	zap.L().Info("sheets export complete",
		zap.String("worksheet", e.worksheet),
		zap.Int("updated", updated),
		zap.Int("appended", appended),
	)
	return nil
}

// ensureWorksheet returns the sheet id of the named worksheet, creating it if
// absent.
func (e *Exporter) ensureWorksheet(ctx context.Context, name string) (int64, error) {
	ss, err := e.api.GetSpreadsheet(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == name {
			return s.Properties.SheetId, nil
		}
	}

	zap.L().Info("creating worksheet", zap.String("name", name))
	err = e.api.BatchUpdate(ctx, []*gsheets.Request{{
		AddSheet: &gsheets.AddSheetRequest{
			Properties: &gsheets.SheetProperties{
				Title: name,
				GridProperties: &gsheets.GridProperties{
					RowCount:    1000,
					ColumnCount: 20,
				},
			},
		},
	}})
	if err != nil {
		return 0, err
	}

	ss, err = e.api.GetSpreadsheet(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == name {
			return s.Properties.SheetId, nil
		}
	}
	return 0, eris.Errorf("sheets: worksheet %s missing after create", name)
}

func (e *Exporter) headerRow(ctx context.Context) ([]string, error) {
	values, err := e.api.GetValues(ctx, e.worksheet+"!1:1")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	header := make([]string, 0, len(values[0]))
	for _, v := range values[0] {
		header = append(header, fmt.Sprint(v))
	}
	return header, nil
}

func (e *Exporter) writeValidationLists(ctx context.Context) error {
	statusCol := append([][]interface{}{{"Status"}}, toColumn(statusList())...)
	catCol := append([][]interface{}{{"Category"}}, toColumn(categoryList())...)
	if err := e.api.UpdateValues(ctx, validationTab+"!A1", statusCol); err != nil {
		return err
	}
	return e.api.UpdateValues(ctx, validationTab+"!B1", catCol)
}

// dropdownRequest builds a ONE_OF_LIST validation over a whole data column,
// or nil when the column is not in the header.
func dropdownRequest(sheetID int64, header []string, column string, values []string) *gsheets.Request {
	idx := indexOf(header, column)
	if idx < 0 {
		return nil
	}
	conds := make([]*gsheets.ConditionValue, len(values))
	for i, v := range values {
		conds[i] = &gsheets.ConditionValue{UserEnteredValue: v}
	}
	return &gsheets.Request{
		SetDataValidation: &gsheets.SetDataValidationRequest{
			Range: &gsheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    1,
				StartColumnIndex: int64(idx),
				EndColumnIndex:   int64(idx + 1),
			},
			Rule: &gsheets.DataValidationRule{
				Condition: &gsheets.BooleanCondition{
					Type:   "ONE_OF_LIST",
					Values: conds,
				},
				ShowCustomUi: true,
			},
		},
	}
}

func statusList() []string {
	return sortedKeys(model.ValidStatuses)
}

func categoryList() []string {
	return sortedKeys(model.ValidCategories)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func missingColumns(header []string) []string {
	var missing []string
	for _, c := range model.Columns {
		if indexOf(header, c) < 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

func indexOf(header []string, col string) int {
	for i, h := range header {
		if h == col {
			return i
		}
	}
	return -1
}

// columnLetter converts a zero-based column index to its A1 letter, or ""
// for a negative index.
func columnLetter(idx int) string {
	if idx < 0 {
		return ""
	}
	letters := ""
	for idx >= 0 {
		letters = string(rune('A'+idx%26)) + letters
		idx = idx/26 - 1
	}
	return letters
}

func toInterfaceRow(row []string) [][]interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return [][]interface{}{out}
}

func toColumn(values []string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, v := range values {
		out[i] = []interface{}{v}
	}
	return out
}
