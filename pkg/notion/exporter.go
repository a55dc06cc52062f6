package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/model"
)

// Exporter upserts lead rows into one Notion database. Company is the title
// property, Category and Status are selects, everything else is rich text.
type Exporter struct {
	client Client
	dbID   string
}

// NewExporter creates an Exporter bound to one database.
func NewExporter(client Client, dbID string) *Exporter {
	return &Exporter{client: client, dbID: dbID}
}

// SetupSchema verifies the database is reachable. Notion database schemas
// are managed in the Notion UI, so there is nothing to create here.
func (e *Exporter) SetupSchema(ctx context.Context) error {
	_, err := e.client.QueryDatabase(ctx, e.dbID, &notionapi.DatabaseQueryRequest{PageSize: 1})
	if err != nil {
		return eris.Wrap(err, "notion: database unreachable")
	}
	zap.L().Info("notion database reachable", zap.String("database", e.dbID))
	return nil
}

// UpsertRows writes rows to the database, updating the page whose keyField
// property matches and creating a page otherwise.
func (e *Exporter) UpsertRows(ctx context.Context, rows []map[string]string, keyField string) error {
	if len(rows) == 0 {
		zap.L().Info("notion export: no rows to write")
		return nil
	}
	if keyField == "" {
		keyField = "Key"
	}

	created, updated := 0, 0
	for _, row := range rows {
		props := leadProperties(row)
		key := row[keyField]

		pageID, err := e.findPage(ctx, keyField, key)
		if err != nil {
			return err
		}
		if pageID != "" {
			if _, err := e.client.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{
				Properties: props,
			}); err != nil {
				return err
			}
			updated++
			continue
		}

		if _, err := e.client.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(e.dbID),
			},
			Properties: props,
		}); err != nil {
			return err
		}
		created++
	}

	zap.L().Info("notion export complete",
		zap.String("database", e.dbID),
		zap.Int("created", created),
		zap.Int("updated", updated),
	)
	return nil
}

// findPage returns the id of the page whose key property equals key, or ""
// when no such page exists. An empty key never matches.
func (e *Exporter) findPage(ctx context.Context, keyField, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	resp, err := e.client.QueryDatabase(ctx, e.dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: keyField,
			RichText: &notionapi.TextFilterCondition{Equals: key},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

// leadProperties maps a canonical row onto Notion page properties.
func leadProperties(row map[string]string) notionapi.Properties {
	props := notionapi.Properties{
		"Company": notionapi.TitleProperty{
			Title: richText(row["Company"]),
		},
	}
	for _, col := range model.Columns {
		v := row[col]
		switch col {
		case "Company":
			// title, set above
		case "Category", "Status":
			if v != "" {
				props[col] = notionapi.SelectProperty{
					Select: notionapi.Option{Name: v},
				}
			}
		default:
			props[col] = notionapi.RichTextProperty{
				RichText: richText(v),
			}
		}
	}
	return props
}

func richText(v string) []notionapi.RichText {
	if v == "" {
		return []notionapi.RichText{}
	}
	return []notionapi.RichText{{Text: &notionapi.Text{Content: v}}}
}
