//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."           // relative to ./e2e
const mainPkgRel = "./cmd/monitor" // monitor main package

const frameTopic = "tanks/tank-42/frames"

func TestSmoke_DecodePipeline(t *testing.T) {
	repoRoot := repoRootPath(t)

	brokerHost, brokerPort := startMosquitto(t)

	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"MQTT_BROKER="+brokerHost,
		"MQTT_PORT="+strconv.Itoa(brokerPort),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start monitor: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 2 * time.Second}
	healthURL := "http://" + addr + "/healthz"

	// The monitor subscribes before its HTTP server comes up, so a healthy
	// /healthz means frames published from here on are seen.
	waitForOK(t, client, healthURL, 10*time.Second)

	resp, err := client.Get(healthURL)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if health["status"] != "ok" {
		t.Fatalf("body.status=%q want=%q", health["status"], "ok")
	}

	publisher := newTestPublisher(t, brokerHost, brokerPort)
	publish(t, publisher, frameTopic, "FFFFFFFF") // every alarm fires
	publish(t, publisher, frameTopic, "7D028A2D") // nominal reading
	publish(t, publisher, frameTopic, "12G4")     // rejected frame

	// Frames arrive in publish order; once the rejected counter moves, both
	// valid frames are fully processed.
	metricsURL := "http://" + addr + "/metrics"
	body := waitForMetric(t, client, metricsURL,
		`tankmon_frames_rejected_total{reason="invalid"} 1`, 10*time.Second)

	for _, line := range []string{
		"tankmon_frames_received_total 3",
		"tankmon_words_decoded_total 2",
		`tankmon_alarms_total{rule="high_temperature"} 1`,
		`tankmon_alarms_total{rule="high_pressure"} 1`,
		`tankmon_alarms_total{rule="humidity_out_of_range"} 1`,
		`tankmon_alarms_total{rule="fluid_level_too_high"} 1`,
		`tankmon_temperature_celsius{tank="tank-42"} 25`,
		`tankmon_pressure_hpa{tank="tank-42"} 1020`,
		`tankmon_fluid_level_liters{tank="tank-42"} 4000`,
		`tankmon_humidity_sensors_tripped{tank="tank-42"} 2`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("metrics missing %q", line)
		}
	}

	stopServer(t, cmd)
}

func startMosquitto(t *testing.T) (string, int) {
	t.Helper()

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image: "eclipse-mosquitto:2",
		// The stock config only listens inside the container; the no-auth
		// config ships with the image and listens on 0.0.0.0.
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort(nat.Port("1883/tcp")).WithStartupTimeout(30 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start mosquitto container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "1883/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	return host, port.Int()
}

func newTestPublisher(t *testing.T, host string, port int) mqtt.Client {
	t.Helper()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", host, port))
	opts.SetClientID("tankmon-e2e")

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		t.Fatal("mqtt connect timeout")
	}
	if token.Error() != nil {
		t.Fatalf("mqtt connect: %v", token.Error())
	}
	t.Cleanup(func() {
		client.Disconnect(250)
	})

	return client
}

func publish(t *testing.T, client mqtt.Client, topic, payload string) {
	t.Helper()

	token := client.Publish(topic, 1, false, []byte(payload))
	if !token.WaitTimeout(5 * time.Second) {
		t.Fatalf("publish timeout for %s", topic)
	}
	if token.Error() != nil {
		t.Fatalf("publish to %s: %v", topic, token.Error())
	}
}

func waitForMetric(t *testing.T, client *http.Client, url, line string, timeout time.Duration) string {
	t.Helper()

	deadline := time.Now().Add(timeout)
	var last string
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			b, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr == nil {
				last = string(b)
				if strings.Contains(last, line) {
					return last
				}
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("metric %q not observed after %s; last scrape:\n%s", line, timeout, last)
	return ""
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	tmp := t.TempDir()
	out := filepath.Join(tmp, "tankmon-monitor")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("monitor did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("monitor exited non-zero: %v", err)
			}
			t.Fatalf("monitor wait error: %v", err)
		}
	}
}
