package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestPagination_Defaults(t *testing.T) {
	page, perPage := pagination(testContext(t, "/api/plantas"))
	if page != 1 || perPage != 20 {
		t.Fatalf("got page=%d perPage=%d", page, perPage)
	}
}

func TestPagination_LimitAlias(t *testing.T) {
	page, perPage := pagination(testContext(t, "/api/plantas?page=3&limit=15"))
	if page != 3 || perPage != 15 {
		t.Fatalf("got page=%d perPage=%d", page, perPage)
	}
}

func TestPagination_PerPageWinsOverLimit(t *testing.T) {
	_, perPage := pagination(testContext(t, "/api/plantas?per_page=5&limit=50"))
	if perPage != 5 {
		t.Fatalf("got perPage=%d", perPage)
	}
}

func TestPagination_ClampsAndSanitizes(t *testing.T) {
	page, perPage := pagination(testContext(t, "/api/plantas?page=-2&per_page=9999"))
	if page != 1 || perPage != 100 {
		t.Fatalf("got page=%d perPage=%d", page, perPage)
	}
	_, perPage = pagination(testContext(t, "/api/plantas?per_page=abc"))
	if perPage != 20 {
		t.Fatalf("got perPage=%d", perPage)
	}
}

func TestUintParam(t *testing.T) {
	c := testContext(t, "/api/plantas/12")
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := uintParam(c, "id")
	if !ok || id != 12 {
		t.Fatalf("got id=%d ok=%v", id, ok)
	}

	c.Params = gin.Params{{Key: "id", Value: "zero"}}
	if _, ok := uintParam(c, "id"); ok {
		t.Fatalf("expected failure on non-numeric id")
	}

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	if _, ok := uintParam(c, "id"); ok {
		t.Fatalf("expected failure on zero id")
	}
}
