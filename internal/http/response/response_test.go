package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/platform/apierr"
)

func TestRespondErr_FlatErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondErr(c, apierr.NotFound("plant_not_found", "planta não encontrada"))

	if w.Code != 404 {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var msg string
	if err := json.Unmarshal(body["error"], &msg); err != nil {
		t.Fatalf("error key must be a plain string, got %s", w.Body.String())
	}
	if msg != "planta não encontrada" {
		t.Fatalf("unexpected message: %q", msg)
	}
	var code string
	if err := json.Unmarshal(body["code"], &code); err != nil || code != "plant_not_found" {
		t.Fatalf("unexpected code: %s", body["code"])
	}
}

func TestRespondError_NilErrorStillRenders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, 500, "", nil)

	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error == "" {
		t.Fatalf("expected a message, got %s", w.Body.String())
	}
}
