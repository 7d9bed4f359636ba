package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_FirstStaffIsChief(t *testing.T) {
	env := newEnv(t, nil)

	first := env.register(map[string]interface{}{"username": "alice", "password": password})
	require.Equal(t, 201, first.Status)
	assert.Equal(t, "chief", first.data()["role"])
	assert.Equal(t, "User alice registered as chief", first.Body["message"])
	assert.NotContains(t, string(first.RawBody), "password")

	second := env.register(map[string]interface{}{"username": "bob", "password": password, "role": "chief"})
	require.Equal(t, 201, second.Status)
	assert.Equal(t, "manager", second.data()["role"])
}

func TestRegister_Supplier(t *testing.T) {
	env := newEnv(t, nil)

	resp := env.register(map[string]interface{}{
		"username": "acme", "password": password, "role": "supplier", "name": "Acme Ltd", "contactInfo": "acme@example.com",
	})
	require.Equal(t, 201, resp.Status)
	assert.Equal(t, "supplier", resp.data()["role"])

	// A supplier account does not take the chief role.
	chief := env.register(map[string]interface{}{"username": "carol", "password": password})
	require.Equal(t, 201, chief.Status)
	assert.Equal(t, "chief", chief.data()["role"])
}

func TestRegister_Validation(t *testing.T) {
	env := newEnv(t, nil)
	require.Equal(t, 201, env.register(map[string]interface{}{"username": "taken", "password": password}).Status)

	cases := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"short username", map[string]interface{}{"username": "ab", "password": password}, 400},
		{"bad characters", map[string]interface{}{"username": "bad name", "password": password}, 400},
		{"short password", map[string]interface{}{"username": "dave", "password": "123"}, 400},
		{"duplicate", map[string]interface{}{"username": "taken", "password": password}, 409},
		{"supplier without name", map[string]interface{}{"username": "sup1", "password": password, "role": "supplier", "contactInfo": "x@y.zz"}, 400},
		{"supplier short contact", map[string]interface{}{"username": "sup2", "password": password, "role": "supplier", "name": "Acme", "contactInfo": "x"}, 400},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := env.register(c.body)
			assert.Equal(t, c.want, resp.Status)
			assert.Equal(t, "error", resp.Body["status"])
		})
	}

	resp := env.do("POST", "/api/v1/auth/register", "", "{not json")
	assert.Equal(t, 400, resp.Status)
}

func TestLogin(t *testing.T) {
	env := newEnv(t, nil)
	env.staff("alice")

	ok := env.do("POST", "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": password})
	require.Equal(t, 200, ok.Status)
	assert.NotEmpty(t, ok.Body["accessToken"])
	user, _ := ok.Body["user"].(map[string]interface{})
	assert.Equal(t, "chief", user["role"])

	bad := env.do("POST", "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, 401, bad.Status)
	assert.Equal(t, "Invalid username or password", bad.Body["message"])

	unknown := env.do("POST", "/api/v1/auth/login", "", map[string]string{"username": "nobody", "password": password})
	assert.Equal(t, 401, unknown.Status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newEnv(t, nil)

	assert.Equal(t, 401, env.do("GET", "/api/v1/products", "", nil).Status)
	assert.Equal(t, 401, env.do("GET", "/api/v1/orders", "not-a-token", nil).Status)
}
