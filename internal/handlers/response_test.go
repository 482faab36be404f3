package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/apperr"
)

func TestRespondServiceErrorMapsSentinels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("resource not found: %w", apperr.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("only the owner: %w", apperr.ErrForbidden), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("bad token: %w", apperr.ErrUnauthorized), http.StatusUnauthorized, "unauthorized"},
		{fmt.Errorf("title is required: %w", apperr.ErrValidation), http.StatusUnprocessableEntity, "validation_failed"},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		RespondServiceError(c, tc.err)

		if w.Code != tc.wantStatus {
			t.Fatalf("got=%d status want=%d for %v", w.Code, tc.wantStatus, tc.err)
		}
		var envelope ErrorEnvelope
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("failed to decode envelope: %v", err)
		}
		if envelope.Error.Code != tc.wantCode {
			t.Fatalf("got=%q code want=%q", envelope.Error.Code, tc.wantCode)
		}
		if envelope.Error.Message == "" {
			t.Fatalf("got empty error message")
		}
	}
}

func TestParseUUIDParamRejectsGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	if _, ok := ParseUUIDParam(c, "id"); ok {
		t.Fatalf("got ok=true want rejection")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got=%d status want=422", w.Code)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7f9c24e5-2e51-4f0b-9a6e-1a2b3c4d5e6f"}}
	id, ok := ParseUUIDParam(c, "id")
	if !ok || id.String() != "7f9c24e5-2e51-4f0b-9a6e-1a2b3c4d5e6f" {
		t.Fatalf("got=%v ok=%v want parsed uuid", id, ok)
	}
}
