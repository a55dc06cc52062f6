package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *MockClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *MockClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, pageID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func TestMockClientSatisfiesInterface(t *testing.T) {
	t.Parallel()
	var _ Client = (*MockClient)(nil)
}

func TestNewClientReturnsClient(t *testing.T) {
	c := NewClient("test-token")
	assert.NotNil(t, c)
}

func TestUpsertRows_CreatesWhenKeyMissing(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{}, nil)
	mc.On("CreatePage", ctx, mock.AnythingOfType("*notionapi.PageCreateRequest")).
		Return(&notionapi.Page{ID: "new-page"}, nil)

	e := NewExporter(mc, "db-1")
	err := e.UpsertRows(ctx, []map[string]string{
		{"Company": "Acme", "Category": "Podcast", "Key": "k1"},
	}, "Key")
	require.NoError(t, err)

	mc.AssertNumberOfCalls(t, "CreatePage", 1)
	mc.AssertNotCalled(t, "UpdatePage")

	req := mc.Calls[1].Arguments.Get(1).(*notionapi.PageCreateRequest)
	assert.Equal(t, notionapi.DatabaseID("db-1"), req.Parent.DatabaseID)
	title := req.Properties["Company"].(notionapi.TitleProperty)
	require.Len(t, title.Title, 1)
	assert.Equal(t, "Acme", title.Title[0].Text.Content)
	sel := req.Properties["Category"].(notionapi.SelectProperty)
	assert.Equal(t, "Podcast", sel.Select.Name)
}

func TestUpsertRows_UpdatesExistingPage(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{{ID: "page-7"}},
		}, nil)
	mc.On("UpdatePage", ctx, "page-7", mock.AnythingOfType("*notionapi.PageUpdateRequest")).
		Return(&notionapi.Page{ID: "page-7"}, nil)

	e := NewExporter(mc, "db-1")
	err := e.UpsertRows(ctx, []map[string]string{
		{"Company": "Acme", "Email": "press@acme.com", "Key": "k1"},
	}, "Key")
	require.NoError(t, err)

	mc.AssertNotCalled(t, "CreatePage")
	mc.AssertNumberOfCalls(t, "UpdatePage", 1)
}

func TestUpsertRows_EmptyKeyAlwaysCreates(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("CreatePage", ctx, mock.AnythingOfType("*notionapi.PageCreateRequest")).
		Return(&notionapi.Page{ID: "new-page"}, nil)

	e := NewExporter(mc, "db-1")
	err := e.UpsertRows(ctx, []map[string]string{{"Company": "Acme"}}, "Key")
	require.NoError(t, err)

	mc.AssertNotCalled(t, "QueryDatabase")
	mc.AssertNumberOfCalls(t, "CreatePage", 1)
}

func TestUpsertRows_CreateErrorAborts(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{}, nil)
	mc.On("CreatePage", ctx, mock.AnythingOfType("*notionapi.PageCreateRequest")).
		Return(nil, assert.AnError)

	e := NewExporter(mc, "db-1")
	err := e.UpsertRows(ctx, []map[string]string{{"Company": "Acme", "Key": "k1"}}, "Key")
	assert.Error(t, err)
}

func TestSetupSchema(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{}, nil)

	e := NewExporter(mc, "db-1")
	assert.NoError(t, e.SetupSchema(ctx))
}

func TestLeadProperties_EmptyValuesStayEmpty(t *testing.T) {
	props := leadProperties(map[string]string{"Company": "Acme"})

	rt := props["Email"].(notionapi.RichTextProperty)
	assert.Empty(t, rt.RichText)
	_, hasCategory := props["Category"]
	assert.False(t, hasCategory, "empty select omitted")
}
