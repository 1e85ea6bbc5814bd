package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/messagely/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	validBody := RegisterRequest{
		Username:  "bob",
		Password:  "secret",
		FirstName: "Bob",
		LastName:  "Smith",
		Phone:     "+14150000000",
	}

	tests := []struct {
		name         string
		body         any
		rawBody      string
		mockSetup    func(m *MockRegisterer)
		expectedCode int
		expectedBody map[string]string
	}{
		{
			name: "success",
			body: validBody,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "bob", "secret", "Bob", "Smith", "+14150000000").
					Return("token123", nil)
			},
			expectedCode: 200,
			expectedBody: map[string]string{"token": "token123"},
		},
		{
			name: "duplicate username",
			body: validBody,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "bob", "secret", "Bob", "Smith", "+14150000000").
					Return("", services.ErrUserAlreadyExists)
			},
			expectedCode: 409,
			expectedBody: map[string]string{"error": "Username already exists"},
		},
		{
			name: "internal server error",
			body: validBody,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "bob", "secret", "Bob", "Smith", "+14150000000").
					Return("", errors.New("database failure"))
			},
			expectedCode: 500,
			expectedBody: map[string]string{"error": "Internal server error"},
		},
		{
			name:         "invalid json",
			rawBody:      "{invalid json}",
			expectedCode: 400,
			expectedBody: map[string]string{"error": "Invalid request body"},
		},
		{
			name: "missing username",
			body: RegisterRequest{
				Password:  "secret",
				FirstName: "Bob",
				LastName:  "Smith",
				Phone:     "+14150000000",
			},
			expectedCode: 400,
			expectedBody: map[string]string{"error": "Username must have an input."},
		},
		{
			name: "missing phone",
			body: RegisterRequest{
				Username:  "bob",
				Password:  "secret",
				FirstName: "Bob",
				LastName:  "Smith",
			},
			expectedCode: 400,
			expectedBody: map[string]string{"error": "phone must have an input."},
		},
		{
			name: "oversized password",
			body: RegisterRequest{
				Username:  "bob",
				Password:  strings.Repeat("x", 2049),
				FirstName: "Bob",
				LastName:  "Smith",
				Phone:     "+14150000000",
			},
			expectedCode: 400,
			expectedBody: map[string]string{"error": "Password has a max length of 2048."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRegisterer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewRegisterHandler(mockSvc)

			var req *http.Request
			if tt.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.rawBody))
			} else {
				bodyBytes, _ := json.Marshal(tt.body)
				req = httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(bodyBytes))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]string
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}
