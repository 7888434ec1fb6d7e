package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"merchant-console/internal/clients"
	"merchant-console/internal/drafts"
	"merchant-console/internal/models"
	"merchant-console/internal/optionmatrix"
)

func setupDraftsRouter(products drafts.ProductCreator) (*gin.Engine, *drafts.MemoryStore) {
	router := setupTestRouter()
	store := drafts.NewMemoryStore()
	svc := drafts.NewService(store, products, nil, 3, quietLogger())
	h := NewDraftsHandler(svc, quietLogger())

	g := router.Group("/drafts/option-product", withIdentity(testOwner, testStore))
	g.GET("", h.GetDraft)
	g.DELETE("", h.Discard)
	g.PUT("/details", h.SaveDetails)
	g.PUT("/axes", h.SetAxes)
	g.POST("/axes", h.AddAxis)
	g.DELETE("/axes/:index", h.RemoveAxis)
	g.POST("/apply", h.Apply)
	g.PATCH("/variants/:row", h.UpdateCell)
	g.DELETE("/variants/:row", h.RemoveRow)
	g.POST("/submit", h.Submit)
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
	return router, store
}

func cellEdit(field optionmatrix.Field, value interface{}) gin.H {
	return gin.H{"field": field, "value": value}
}

var sizeColorAxes = setAxesRequest{Axes: []optionmatrix.Axis{
	{Name: "Size", RawValues: "S, M, L"},
	{Name: "Color", RawValues: "Red, Blue"},
}}

func TestDrafts_ApplyEditSubmit(t *testing.T) {
	products := new(MockProductsBackend)
	router, store := setupDraftsRouter(products)

	w := doJSON(t, router, http.MethodPut, "/drafts/option-product/details", models.ProductDetails{Name: "T-shirt", DisplayCategoryID: 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/drafts/option-product/axes", sizeColorAxes)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/drafts/option-product/apply", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var applied envelope[drafts.Draft]
	decode(t, w, &applied)
	require.Len(t, applied.Data.Variants, 6)
	assert.Equal(t, "S / Red", applied.Data.Variants[0].DisplayLabel)

	w = doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/1", cellEdit(optionmatrix.FieldSalePrice, "9,900"))
	require.Equal(t, http.StatusOK, w.Code)
	var edited envelope[drafts.Draft]
	decode(t, w, &edited)
	assert.Equal(t, 9, edited.Data.Variants[1].SalePrice)
	assert.Equal(t, 0, edited.Data.Variants[0].SalePrice)

	products.On("CreateOptionProduct", mock.Anything, testStore, mock.MatchedBy(func(req models.CreateOptionProductRequest) bool {
		return req.Name == "T-shirt" && len(req.Variants) == 6 && len(req.OptionGroups) == 2
	})).Return(nil)

	w = doJSON(t, router, http.MethodPost, "/drafts/option-product/submit", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	products.AssertExpectations(t)

	left, err := store.Get(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestDrafts_TooManyAxes(t *testing.T) {
	router, _ := setupDraftsRouter(nil)
	req := setAxesRequest{Axes: []optionmatrix.Axis{
		{Name: "A", RawValues: "1"}, {Name: "B", RawValues: "1"},
		{Name: "C", RawValues: "1"}, {Name: "D", RawValues: "1"},
	}}

	w := doJSON(t, router, http.MethodPut, "/drafts/option-product/axes", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "TOO_MANY_AXES", resp.Error.Code)
}

func TestDrafts_UpdateCellErrors(t *testing.T) {
	router, _ := setupDraftsRouter(nil)

	w := doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/0", cellEdit(optionmatrix.FieldStock, "1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	doJSON(t, router, http.MethodPut, "/drafts/option-product/axes", sizeColorAxes)
	doJSON(t, router, http.MethodPost, "/drafts/option-product/apply", nil)

	w = doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/6", cellEdit(optionmatrix.FieldStock, "1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/0", cellEdit("weight", "1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/x", cellEdit(optionmatrix.FieldStock, "1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDrafts_SubmitBeforeApply(t *testing.T) {
	router, _ := setupDraftsRouter(nil)
	w := doJSON(t, router, http.MethodPost, "/drafts/option-product/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDrafts_SubmitBackendRejection(t *testing.T) {
	products := new(MockProductsBackend)
	router, store := setupDraftsRouter(products)
	doJSON(t, router, http.MethodPut, "/drafts/option-product/axes", sizeColorAxes)
	doJSON(t, router, http.MethodPost, "/drafts/option-product/apply", nil)

	products.On("CreateOptionProduct", mock.Anything, testStore, mock.Anything).
		Return(&clients.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "selling price exceeds original price"})

	w := doJSON(t, router, http.MethodPost, "/drafts/option-product/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp models.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "selling price exceeds original price", resp.Error.Message)

	kept, err := store.Get(context.Background(), testOwner)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Len(t, kept.Variants, 6)
}

func TestDrafts_RemoveAxisAndRow(t *testing.T) {
	router, _ := setupDraftsRouter(nil)
	doJSON(t, router, http.MethodPut, "/drafts/option-product/axes", sizeColorAxes)

	w := doJSON(t, router, http.MethodDelete, "/drafts/option-product/axes/5", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/drafts/option-product/axes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	doJSON(t, router, http.MethodPost, "/drafts/option-product/apply", nil)
	w = doJSON(t, router, http.MethodDelete, "/drafts/option-product/variants/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d envelope[drafts.Draft]
	decode(t, w, &d)
	require.Len(t, d.Data.Variants, 2)
	assert.Equal(t, "M", d.Data.Variants[0].DisplayLabel)
}

func TestDrafts_ExportImport(t *testing.T) {
	router, _ := setupDraftsRouter(nil)
	doJSON(t, router, http.MethodPut, "/drafts/option-product/axes", sizeColorAxes)
	doJSON(t, router, http.MethodPost, "/drafts/option-product/apply", nil)
	doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/2", cellEdit(optionmatrix.FieldStock, "15"))

	w := doJSON(t, router, http.MethodGet, "/drafts/option-product/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	workbook := w.Body.Bytes()
	require.NotEmpty(t, workbook)

	doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/2", cellEdit(optionmatrix.FieldStock, "0"))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "option_variants.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/drafts/option-product/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var d envelope[drafts.Draft]
	decode(t, rec, &d)
	assert.Equal(t, 15, d.Data.Variants[2].Stock)
}

func TestDrafts_ImportWithoutFile(t *testing.T) {
	router, _ := setupDraftsRouter(nil)
	w := doJSON(t, router, http.MethodPost, "/drafts/option-product/import", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDrafts_UpdateCellAcceptsNumbers(t *testing.T) {
	router, _ := setupDraftsRouter(nil)
	doJSON(t, router, http.MethodPut, "/drafts/option-product/axes", sizeColorAxes)
	doJSON(t, router, http.MethodPost, "/drafts/option-product/apply", nil)

	tests := []struct {
		value interface{}
		want  int
	}{
		{5, 5},
		{12000, 12000},
		{3.9, 3},
		{"12abc", 12},
		{"abc", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		w := doJSON(t, router, http.MethodPatch, "/drafts/option-product/variants/0", cellEdit(optionmatrix.FieldStock, tt.value))
		require.Equal(t, http.StatusOK, w.Code, "value %v", tt.value)
		var d envelope[drafts.Draft]
		decode(t, w, &d)
		assert.Equal(t, tt.want, d.Data.Variants[0].Stock, "value %v", tt.value)
	}
}
