package model_test

import (
	"encoding/json"
	"testing"

	"github.com/mdnkit/go-libmdn/mdnpath"
	"github.com/mdnkit/go-libmdn/search/model"
	"github.com/stretchr/testify/require"
)

func TestNewResult(t *testing.T) {
	r, ok := model.NewResult("  Array.prototype.map() ", "/en-US/docs/Web/JavaScript/Reference/Global_Objects/Array/map/", " Creates a new array. ")
	require.True(t, ok)
	require.Equal(t, "/en-US/docs/Web/JavaScript/Reference/Global_Objects/Array/map", r.Path)
	require.Equal(t, r.Path, r.ID)
	require.Equal(t, "Array.prototype.map()", r.Title)
	require.Equal(t, "https://developer.mozilla.org"+r.Path, r.URL)
	require.Equal(t, "Creates a new array.", r.Summary)
	require.Equal(t, mdnpath.KindJS, r.Kind)

	r, ok = model.NewResult("fetch()", "https://developer.mozilla.org/en-US/docs/Web/API/Window/fetch#syntax", "   ")
	require.True(t, ok)
	require.Equal(t, "/en-US/docs/Web/API/Window/fetch", r.Path)
	require.Empty(t, r.Summary)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.NotContains(t, string(data), "summary")

	_, ok = model.NewResult(" ", "/en-US/docs/Web", "")
	require.False(t, ok)
}

func TestPaths(t *testing.T) {
	a, _ := model.NewResult("A", "/en-US/docs/A", "")
	b, _ := model.NewResult("B", "/en-US/docs/B", "")
	require.Equal(t, []string{"/en-US/docs/A", "/en-US/docs/B"}, model.Paths([]model.Result{a, b}))
	require.Empty(t, model.Paths(nil))
}

func TestNewIndexItem(t *testing.T) {
	item, ok := model.NewIndexItem(" Fetch API ", "en-US/docs/Web/API/Fetch_API ")
	require.True(t, ok)
	require.Equal(t, model.IndexItem{Title: "Fetch API", URL: "/en-US/docs/Web/API/Fetch_API"}, item)

	item, ok = model.NewIndexItem("Fetch API", "/en-US/docs/Web/API/Fetch_API")
	require.True(t, ok)
	require.Equal(t, "/en-US/docs/Web/API/Fetch_API", item.URL)

	_, ok = model.NewIndexItem("", "/en-US/docs/A")
	require.False(t, ok)
	_, ok = model.NewIndexItem("A", "  ")
	require.False(t, ok)
}
