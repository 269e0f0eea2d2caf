package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpress/backend/internal/domain/print"
)

var testDims = print.PrintDimensions{WidthMm: 50, HeightMm: 40, BleedMm: 3, DPI: 150}

func testGenProduct() print.PrintProduct {
	return print.PrintProduct{
		Provider:    print.ProviderLumaprints,
		ProductType: "photobook",
		Variant:     "mini",
		Dimensions:  testDims,
		PageCount:   4,
		Paper:       print.PaperMatte170,
		Cover:       print.CoverHardcover,
		Binding:     print.BindingPerfect,
	}
}

func genPage(t *testing.T, number int, fill string) print.PrintPage {
	t.Helper()
	scene, err := json.Marshal(print.Scene{BackgroundFill: fill})
	require.NoError(t, err)
	p, err := print.NewPrintPage(number, print.PageKindSingle, scene, testDims)
	require.NoError(t, err)
	return *p
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(NewStubRenderer(), nil)
	front := genPage(t, 0, "#803020")
	back := genPage(t, 0, "#203080")

	result, err := gen.Generate(context.Background(), &GenerateRequest{
		Product: testGenProduct(),
		Pages: []print.PrintPage{
			genPage(t, 1, "#ffffff"),
			genPage(t, 2, "#eeeeee"),
			genPage(t, 3, "#dddddd"),
			genPage(t, 4, "#cccccc"),
		},
		Cover: &print.CoverDesign{Front: &front, Back: &back},
		Title: "Family Album",
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.PDFData, []byte("%PDF")), "output must be a PDF")
	assert.Equal(t, 3, result.PageCount, "cover sheet plus two spreads")
	assert.Equal(t, print.MinSpineWidthMm, result.SpineWidthMm, "thin book spine is floored")
}

func TestGenerator_Generate_OddPages(t *testing.T) {
	gen := NewGenerator(NewStubRenderer(), nil)

	result, err := gen.Generate(context.Background(), &GenerateRequest{
		Product: testGenProduct(),
		Pages: []print.PrintPage{
			genPage(t, 1, "#ffffff"),
			genPage(t, 2, "#eeeeee"),
			genPage(t, 3, "#dddddd"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.PageCount, "no cover, final spread padded with a blank")
}

func TestGenerator_Generate_WrapCover(t *testing.T) {
	gen := NewGenerator(NewStubRenderer(), nil)
	wrap := genPage(t, 0, "#406080")
	spine := genPage(t, 0, "#111111")
	front := genPage(t, 0, "#222222")
	back := genPage(t, 0, "#333333")

	result, err := gen.Generate(context.Background(), &GenerateRequest{
		Product: testGenProduct(),
		Pages:   []print.PrintPage{genPage(t, 1, "#ffffff"), genPage(t, 2, "#ffffff")},
		Cover:   &print.CoverDesign{Wrap: &wrap, Front: &front, Back: &back, Spine: &spine},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.PageCount, "wrap cover renders as one sheet")
}

func TestGenerator_Generate_Errors(t *testing.T) {
	gen := NewGenerator(NewStubRenderer(), nil)

	t.Run("no pages", func(t *testing.T) {
		_, err := gen.Generate(context.Background(), &GenerateRequest{Product: testGenProduct()})
		assert.Error(t, err)
	})

	t.Run("invalid product", func(t *testing.T) {
		product := testGenProduct()
		product.PageCount = 0
		_, err := gen.Generate(context.Background(), &GenerateRequest{
			Product: product,
			Pages:   []print.PrintPage{genPage(t, 1, "#ffffff")},
		})
		assert.Error(t, err)
	})

	t.Run("corrupt scene", func(t *testing.T) {
		page := genPage(t, 1, "#ffffff")
		page.Scene = json.RawMessage(`{broken`)
		_, err := gen.Generate(context.Background(), &GenerateRequest{
			Product: testGenProduct(),
			Pages:   []print.PrintPage{page},
		})
		require.Error(t, err)
		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, ErrCodeInvalidScene, rerr.Code)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gen.Generate(ctx, &GenerateRequest{
			Product: testGenProduct(),
			Pages:   []print.PrintPage{genPage(t, 1, "#ffffff")},
		})
		assert.Error(t, err)
	})
}
