package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type loanTerms struct {
	ClientID   string  `json:"client_id"`
	Principal  float64 `json:"principal"`
	TermLength int     `json:"term_length"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    loanTerms
		expectError bool
	}{
		{
			name:        "Nested Structure",
			key:         "loan",
			body:        `{"loan": {"client_id": "client-1", "principal": 1000, "term_length": 3}}`,
			expected:    loanTerms{ClientID: "client-1", Principal: 1000, TermLength: 3},
			expectError: false,
		},
		{
			name:        "Flat Structure",
			key:         "loan",
			body:        `{"client_id": "client-2", "principal": 500, "term_length": 10}`,
			expected:    loanTerms{ClientID: "client-2", Principal: 500, TermLength: 10},
			expectError: false,
		},
		{
			name:        "Nested Structure with Missing Key Fallback",
			key:         "loan",
			body:        `{"other": "value", "client_id": "client-3", "principal": 750, "term_length": 4}`,
			expected:    loanTerms{ClientID: "client-3", Principal: 750, TermLength: 4},
			expectError: false,
		},
		{
			name:        "Nested Structure with Different Key",
			key:         "payment",
			body:        `{"payment": {"client_id": "client-4", "principal": 300, "term_length": 2}}`,
			expected:    loanTerms{ClientID: "client-4", Principal: 300, TermLength: 2},
			expectError: false,
		},
		{
			name:        "Invalid JSON",
			key:         "loan",
			body:        `{"client_id": "client-5", "principal": "invalid"}`, // principal is a number
			expected:    loanTerms{},
			expectError: true,
		},
		{
			name:        "Nested but Invalid Content",
			key:         "loan",
			body:        `{"loan": {"client_id": "client-6", "principal": "invalid"}}`,
			expected:    loanTerms{},
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "loan",
			body:        `{"loan": "some string"}`,
			expected:    loanTerms{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result loanTerms
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
