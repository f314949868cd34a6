package app_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/simpledi/framework/app"
	"github.com/km-arc/simpledi/framework/container"
)

// newApp builds an application from an empty working directory.
func newApp(t *testing.T) *app.Application {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "testing")
	t.Setenv("APP_DEBUG", "false")

	a, err := app.New()
	require.NoError(t, err)
	return a
}

type greeter struct{ Name string }

type greeterProvider struct {
	container.BaseProvider
	booted bool
}

func (p *greeterProvider) Register(c *container.Container) error {
	return c.RegisterConstructorOnce("greeter", greeter{}, "name")
}

func (p *greeterProvider) Boot(*container.Container) error {
	p.booted = true
	return nil
}

func TestNew_RegistersFrameworkEntries(t *testing.T) {
	a := newApp(t)

	for _, name := range []string{"container", "config", "logger", "inspector", "router"} {
		assert.True(t, a.Has(name), name)
	}
	self, err := container.Resolve[*container.Container](a.Container, "container")
	require.NoError(t, err)
	assert.Same(t, a.Container, self)
}

func TestBoot(t *testing.T) {
	a := newApp(t)
	p := &greeterProvider{}
	require.NoError(t, a.Register(p))
	require.NoError(t, a.RegisterConstant("name", "Ada"))

	require.NoError(t, a.Boot())
	assert.True(t, a.Providers.Booted())
	assert.True(t, p.booted)
	assert.True(t, a.Memoized("config"))
	assert.True(t, a.Memoized("logger"))

	g, err := container.Resolve[*greeter](a.Container, "greeter")
	require.NoError(t, err)
	assert.Equal(t, "Ada", g.Name)
}

func TestEnvironment(t *testing.T) {
	a := newApp(t)

	assert.Equal(t, "testing", a.Environment())
	assert.True(t, a.IsTesting())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsProduction())
}

func TestRouter_ServesInspector(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.Boot())

	router, err := a.Router()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/di/entries/config", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"name":"config","memoized":true,"count":3}}`, rr.Body.String())
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun(t *testing.T) {
	chdir(t, t.TempDir())
	port := freePort(t)
	require.NoError(t, os.WriteFile(filepath.Join(".", "simpledi.yaml"),
		[]byte("app:\n  debug: false\n  port: \""+strconv.Itoa(port)+"\"\n"), 0o644))

	a, err := app.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/di/counts"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
