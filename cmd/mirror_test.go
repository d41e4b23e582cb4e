package cmd

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/wentf9/ftpmirror/pkg/config"
	"github.com/wentf9/ftpmirror/pkg/mirror"
	"github.com/wentf9/ftpmirror/pkg/models"
)

func completeMirror(t *testing.T, cfgPath string, flags []string, args []string) (*MirrorOptions, error) {
	t.Helper()
	o := NewMirrorOptions()
	o.ConfigPath = cfgPath
	cmd := newCmdMirror(o)
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if err := o.Complete(cmd, args); err != nil {
		return o, err
	}
	return o, o.Validate()
}

func TestMirrorOptionsFromAddress(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	o, err := completeMirror(t, cfgPath,
		[]string{"-q", "--chunk-size", "16KB", "--progress", "line"},
		[]string{"ftp://ftp.example.com:2121/pub/SDK"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	want := models.Site{
		Address:           "ftp.example.com",
		Port:              2121,
		RemotePath:        "/pub/SDK",
		LocalPath:         ".",
		ChunkSize:         "16KB",
		FinalProgressOnly: true,
		Progress:          "line",
	}
	if o.site != want {
		t.Errorf("site = %+v, want %+v", o.site, want)
	}
	if o.chunkSize != 16*1024 {
		t.Errorf("chunkSize = %d", o.chunkSize)
	}
}

func TestMirrorOptionsDefaults(t *testing.T) {
	o, err := completeMirror(t, filepath.Join(t.TempDir(), "c.yaml"), nil, []string{"ftp.example.com"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if o.site.Port != 21 || o.site.RemotePath != "/" || o.site.LocalPath != "." || o.site.Progress != "auto" {
		t.Errorf("defaults not applied: %+v", o.site)
	}
	if o.chunkSize != mirror.DefaultChunkSize {
		t.Errorf("chunkSize = %d, want %d", o.chunkSize, mirror.DefaultChunkSize)
	}
}

func TestMirrorOptionsSavedSite(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	store := config.NewDefaultStore(cfgPath)
	saved := models.Site{
		Address:      "dulik.dev.tbscz",
		Port:         21,
		RemotePath:   "/pub/SDK/vcpkg/",
		LocalPath:    "external",
		Timeout:      30 * time.Second,
		TypedListing: true,
		Progress:     "bar",
	}
	if err := store.Save(&config.Configuration{Sites: map[string]models.Site{"vcpkg": saved}}); err != nil {
		t.Fatal(err)
	}

	o, err := completeMirror(t, cfgPath, []string{"--port", "2121"}, []string{"vcpkg", "/pub/other"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if o.siteName != "vcpkg" {
		t.Errorf("siteName = %q", o.siteName)
	}
	want := saved
	want.Port = 2121
	want.RemotePath = "/pub/other"
	if o.site != want {
		t.Errorf("site = %+v, want %+v", o.site, want)
	}
}

func TestMirrorOptionsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		flags []string
		args  []string
	}{
		{"no args", nil, nil},
		{"bad progress", []string{"--progress", "fancy"}, []string{"host"}},
		{"bad chunk", []string{"--chunk-size", "lots"}, []string{"host"}},
		{"empty host", nil, []string{":21"}},
		{"port out of range", nil, []string{"ftp.example.com:99999"}},
	}
	for _, tt := range tests {
		if _, err := completeMirror(t, filepath.Join(dir, "c.yaml"), tt.flags, tt.args); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestNewReporter(t *testing.T) {
	for _, style := range []string{"", "auto", "line", "bar", "log"} {
		for _, term := range []bool{true, false} {
			f, err := newReporter(style, &bytes.Buffer{}, term)
			if err != nil || f == nil {
				t.Errorf("newReporter(%q, %v) = %v, %v", style, term, f, err)
			}
		}
	}
	if _, err := newReporter("fancy", &bytes.Buffer{}, true); err == nil {
		t.Error("unknown style should fail")
	}

	var buf bytes.Buffer
	f, _ := newReporter("auto", &buf, true)
	f("a.txt", 10)
	if buf.Len() != 0 {
		t.Error("creating a reporter should not write anything")
	}
}

func TestMirrorRunConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	o, err := completeMirror(t, filepath.Join(t.TempDir(), "c.yaml"),
		[]string{"--timeout", "2s"}, []string{addr.String(), "/pub", t.TempDir()})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	var out bytes.Buffer
	if err := o.Run(context.Background(), &out); err == nil {
		t.Error("Run against a closed port should fail")
	}
	if !strings.Contains(out.String(), "Downloading from "+addr.String()+"/pub") {
		t.Errorf("missing start message: %q", out.String())
	}
}

// newTestRoot 每个测试使用新的命令树, 避免全局命令上残留的参数状态
func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "ftpmirror", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("config", "", "")
	root.AddCommand(NewCmdSite())
	return root
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newTestRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSiteCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runRoot(t, "--config", cfgPath, "site", "list")
	if err != nil || !strings.Contains(out, "没有保存的站点") {
		t.Fatalf("empty list: %q, %v", out, err)
	}

	if _, err := runRoot(t, "--config", cfgPath, "site", "add", "vcpkg", "dulik.dev.tbscz", "/pub/SDK/vcpkg/", "-q", "--chunk-size", "8KB"); err != nil {
		t.Fatalf("site add: %v", err)
	}
	if _, err := runRoot(t, "--config", cfgPath, "site", "add", "bad", "host", "--progress", "fancy"); err == nil {
		t.Error("site add with invalid progress should fail")
	}
	if _, err := runRoot(t, "--config", cfgPath, "site", "add", "bad", "host:99999"); err == nil {
		t.Error("site add with invalid port should fail")
	}

	cfg, err := config.NewDefaultStore(cfgPath).Load()
	if err != nil {
		t.Fatal(err)
	}
	site, ok := cfg.Sites["vcpkg"]
	if !ok || site.Address != "dulik.dev.tbscz" || site.Port != 21 || !site.FinalProgressOnly {
		t.Errorf("saved site = %+v", site)
	}
	if _, ok := cfg.Sites["bad"]; ok {
		t.Error("invalid site should not be saved")
	}

	out, err = runRoot(t, "--config", cfgPath, "site", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"vcpkg", "dulik.dev.tbscz:21", "/pub/SDK/vcpkg/", "final only"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	if _, err := runRoot(t, "--config", cfgPath, "site", "remove", "vcpkg"); err != nil {
		t.Fatalf("site remove: %v", err)
	}
	if _, err := runRoot(t, "--config", cfgPath, "site", "remove", "vcpkg"); err == nil {
		t.Error("removing a missing site should fail")
	}
}
