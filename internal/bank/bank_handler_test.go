package bank_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/bank"
	"go-payroll/internal/shared/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

func performValidate(t *testing.T, body string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	h := bank.NewHandler(bank.NewValidator(nil, notify.Nop()))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/bank-accounts/validate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Validate(c)

	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestBankHandler_Validate(t *testing.T) {
	t.Run("valid account", func(t *testing.T) {
		w, env := performValidate(t, `{"routing_number":"021000021","account_number":"123456789","account_type":"checking"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Ok)

		var result bank.ValidationResult
		assert.NoError(t, json.Unmarshal(env.Data, &result))
		assert.True(t, result.Valid)
		assert.Equal(t, "JPMorgan Chase", result.BankName)
	})

	t.Run("invalid routing number still returns 200 with reasons", func(t *testing.T) {
		w, env := performValidate(t, `{"routing_number":"123456789","account_number":"123456789"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var result bank.ValidationResult
		assert.NoError(t, json.Unmarshal(env.Data, &result))
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "Invalid routing number checksum")
	})

	t.Run("missing required fields", func(t *testing.T) {
		w, env := performValidate(t, `{"bank_name":"Chase"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Ok)
	})
}
