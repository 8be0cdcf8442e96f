package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ToolForge/toolforge/pkg/platform"
)

func writeDef(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func linuxPlatform() *platform.Platform {
	return &platform.Platform{OS: "linux", Shell: "bash"}
}

func TestStore_Names(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "zeta.yaml", "name: zeta\n")
	writeDef(t, dir, "alpha.yml", "name: alpha\n")
	writeDef(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := NewStore(dir).Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if want := []string{"alpha", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestStore_NamesMissingDir(t *testing.T) {
	names, err := NewStore(filepath.Join(t.TempDir(), "absent")).Names()
	if err != nil || names != nil {
		t.Errorf("Names() on missing dir = %v, %v; want nil, nil", names, err)
	}
}

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "archiver.yaml", `
subcommand: create
interfaces: [archive]
aliases: [arc]
options:
  - name: level
    flag: -l
    type: {type: integer, range: [0, 9]}
arguments:
  - name: output
    type: {type: file}
    position: last
timeout: 45s
exit_codes:
  2: usage error
`)
	store := NewStore(dir)

	def, err := store.Load("archiver")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// An omitted name defaults to the file's base name.
	if def.Name != "archiver" {
		t.Errorf("Name = %q, want archiver", def.Name)
	}
	if def.Subcommand != "create" || len(def.Options) != 1 {
		t.Errorf("unexpected definition: %+v", def)
	}
	arg, ok := def.LastArgument()
	if !ok || arg.Name != "output" {
		t.Errorf("LastArgument() = %v, %v", arg, ok)
	}
	if dur, err := def.TimeoutDuration(); err != nil || dur.Seconds() != 45 {
		t.Errorf("TimeoutDuration() = %v, %v", dur, err)
	}
	if def.ExitCodes[2] != "usage error" {
		t.Errorf("ExitCodes = %v", def.ExitCodes)
	}

	if _, err := store.Load("missing"); err == nil {
		t.Error("expected error for absent tool")
	}
}

func TestStore_LoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "bad.yaml", `
arguments:
  - name: a
    type: {type: file}
    position: last
  - name: b
    type: {type: file}
    position: last
`)
	if _, err := NewStore(dir).Load("bad"); err == nil {
		t.Error("expected validation error for two last-positioned arguments")
	}
}

func TestStore_Fingerprint(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if fp := NewStore(filepath.Join(dir, "absent")).Fingerprint(); fp != (Fingerprint{}) {
		t.Errorf("missing dir fingerprint = %+v, want zero", fp)
	}

	writeDef(t, dir, "a.yaml", "name: a\n")
	before := store.Fingerprint()
	if before.Count != 1 {
		t.Errorf("Count = %d, want 1", before.Count)
	}
	if again := store.Fingerprint(); again != before {
		t.Error("fingerprint changed without a store change")
	}

	writeDef(t, dir, "b.yaml", "name: b\n")
	if after := store.Fingerprint(); after.Count != 2 {
		t.Errorf("Count = %d after adding a file, want 2", after.Count)
	}
}

func TestIndex_FindByInterface(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "tarball.yaml", "interfaces: [archive, compress]\n")
	writeDef(t, dir, "zipper.yaml", "interfaces: [compress]\n")
	// Unparsable definitions drop out of the candidate lists without
	// poisoning the rest of the index.
	writeDef(t, dir, "broken.yaml", "interfaces: [archive\n")

	ix := NewIndex(NewStore(dir), linuxPlatform(), nil)

	def, ok := ix.FindByInterface("archive")
	if !ok || def.Name != "tarball" {
		t.Errorf("FindByInterface(archive) = %v, %v", def, ok)
	}
	// Candidates resolve in sorted store order.
	def, ok = ix.FindByInterface("compress")
	if !ok || def.Name != "tarball" {
		t.Errorf("FindByInterface(compress) = %v, %v", def, ok)
	}
	if _, ok := ix.FindByInterface("transcode"); ok {
		t.Error("FindByInterface matched an unknown capability")
	}
}

func TestIndex_FindByAlias(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "solo.yaml", "aliases: [only]\n")
	// Shared alias: the windows-only candidate sorts first, but the
	// platform-compatible one must win regardless of order.
	writeDef(t, dir, "a-win.yaml", `
aliases: [fmt]
profile:
  platforms: [windows]
`)
	writeDef(t, dir, "b-lin.yaml", `
aliases: [fmt]
profile:
  platforms: [linux]
`)

	ix := NewIndex(NewStore(dir), linuxPlatform(), nil)

	if name, ok := ix.FindByAlias("only"); !ok || name != "solo" {
		t.Errorf("FindByAlias(only) = %q, %v", name, ok)
	}
	if name, ok := ix.FindByAlias("fmt"); !ok || name != "b-lin" {
		t.Errorf("FindByAlias(fmt) = %q, %v; want the platform-compatible candidate", name, ok)
	}
	if _, ok := ix.FindByAlias("nope"); ok {
		t.Error("FindByAlias matched an unknown alias")
	}
}

func TestIndex_SharedAliasFallsBackWhenNoneCompatible(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "first.yaml", "aliases: [x]\nprofile: {platforms: [windows]}\n")
	writeDef(t, dir, "second.yaml", "aliases: [x]\nprofile: {platforms: [freebsd]}\n")

	ix := NewIndex(NewStore(dir), linuxPlatform(), nil)
	if name, ok := ix.FindByAlias("x"); !ok || name != "first" {
		t.Errorf("FindByAlias(x) = %q, %v; want first candidate as fallback", name, ok)
	}
}

func TestIndex_RebuildsOnStoreChange(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "one.yaml", "aliases: [uno]\n")

	ix := NewIndex(NewStore(dir), linuxPlatform(), nil)
	if _, ok := ix.FindByAlias("uno"); !ok {
		t.Fatal("initial build missed an alias")
	}
	if _, ok := ix.FindByAlias("dos"); ok {
		t.Fatal("alias resolved before its definition exists")
	}

	// Adding a definition changes the store fingerprint, which must
	// trigger a rebuild on the next lookup.
	writeDef(t, dir, "two.yaml", "aliases: [dos]\n")
	if name, ok := ix.FindByAlias("dos"); !ok || name != "two" {
		t.Errorf("FindByAlias(dos) after store change = %q, %v", name, ok)
	}

	// Removal is also a fingerprint change.
	if err := os.Remove(filepath.Join(dir, "one.yaml")); err != nil {
		t.Fatal(err)
	}
	ix.Refresh()
	if _, ok := ix.FindByAlias("uno"); ok {
		t.Error("alias survived its definition's removal")
	}
}
