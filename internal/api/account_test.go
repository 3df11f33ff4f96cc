package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksage/sage/pkg/sageapi"
)

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		responseBody   string
		wantErr        bool
		wantErrContain string
	}{
		{
			name:         "success",
			statusCode:   200,
			responseBody: `{"token": "jwt-123", "user": {"fullName": "Ram Thapa", "email": "ram@example.com"}}`,
		},
		{
			name:           "invalid credentials",
			statusCode:     401,
			responseBody:   `{"message": "Invalid email or password"}`,
			wantErr:        true,
			wantErrContain: "Invalid email or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/login", r.URL.Path)

				var req LoginRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "ram@example.com", req.Email)

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			resp, err := NewClient(server.URL, nil).Login(context.Background(), LoginRequest{Email: "ram@example.com", Password: "secret1"})

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "login failed")
				assert.Contains(t, err.Error(), tt.wantErrContain)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "jwt-123", resp.Token)
			require.NotNil(t, resp.User)
			assert.Equal(t, "Ram Thapa", resp.User.FullName)
		})
	}
}

func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/register", r.URL.Path)
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Sita", req.FullName)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "User registered successfully"}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, nil).Register(context.Background(), RegisterRequest{FullName: "Sita", Email: "s@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", resp.Message)
}

func TestClient_Logout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/logout", r.URL.Path)
		assert.Equal(t, "Bearer jwt-123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewClient(server.URL, StaticToken("jwt-123")).Logout(context.Background())
	assert.NoError(t, err)
}

func TestClient_CheckAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/check-auth", r.URL.Path)
		_, _ = w.Write([]byte(`{"authenticated": true, "user": {"fullName": "Ram", "email": "ram@example.com"}}`))
	}))
	defer server.Close()

	status, err := NewClient(server.URL, StaticToken("jwt")).CheckAuth(context.Background())

	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "ram@example.com", status.User.Email)
}

func TestClient_ProfileRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/profile", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"fullName": "Ram", "email": "ram@example.com", "phone": "9800000000"}`))
		case http.MethodPut:
			var update ProfileUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			assert.Equal(t, "Ram Bahadur", update.FullName)
			assert.Empty(t, update.NewPassword)
			_, _ = w.Write([]byte(`{"message": "Profile updated"}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("jwt"))

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9800000000", user.Phone)

	resp, err := client.UpdateProfile(context.Background(), ProfileUpdate{FullName: "Ram Bahadur", Email: user.Email, Phone: user.Phone})
	require.NoError(t, err)
	assert.Equal(t, "Profile updated", resp.Message)
}

func TestClient_SettingsRoundTrip(t *testing.T) {
	var saved Settings
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/settings", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(sageapi.DefaultSettings())
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			_, _ = w.Write([]byte(`{"message": "Settings saved"}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("jwt"))

	settings, err := client.Settings(context.Background())
	require.NoError(t, err)
	require.NoError(t, settings.Set("preferences.theme", "dark"))

	_, err = client.UpdateSettings(context.Background(), *settings)
	require.NoError(t, err)
	assert.Equal(t, "dark", saved.Preferences.Theme)
}

func TestClient_Contact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contact", r.URL.Path)
		var msg ContactMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "Hello", msg.Subject)
		_, _ = w.Write([]byte(`{"message": "Thanks for reaching out"}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, nil).Contact(context.Background(), ContactMessage{Name: "Ram", Email: "ram@example.com", Subject: "Hello", Message: "Hi"})

	require.NoError(t, err)
	assert.Equal(t, "Thanks for reaching out", resp.Message)
}
