// ABOUTME: Tests for CLI commands
// ABOUTME: Covers point commands, the place loop, file commands, migrate, and sync

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harper/pointedit/internal/config"
	"github.com/harper/pointedit/internal/editor"
	"github.com/harper/pointedit/internal/models"
	"github.com/harper/pointedit/internal/points"
	"github.com/harper/pointedit/internal/storage"
	"github.com/spf13/cobra"
)

// testSession points the global store and session at a temporary file store.
func testSession(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	cfg = &config.Config{Backend: storage.BackendFile, DataDir: tmpDir}
	store = storage.NewFileStore(filepath.Join(tmpDir, "points.json"))
	session = editor.Open(context.Background(), store)

	t.Cleanup(func() {
		if store != nil {
			_ = store.Close()
		}
		store = nil
		session = nil
		cfg = nil
	})
	return tmpDir
}

// run executes a command's RunE with a background context and the given stdin.
func run(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	defer func() {
		cmd.SetOut(nil)
		cmd.SetIn(nil)
	}()
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func seed(t *testing.T, locs ...models.Location) {
	t.Helper()
	for _, loc := range locs {
		if _, err := session.Dispatch(context.Background(), points.AddPoint{Location: loc}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func stored(t *testing.T) models.Collection {
	t.Helper()
	pts, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return pts
}

// Tests for rootCmd

func TestRootCmd_Metadata(t *testing.T) {
	if rootCmd.Use != "pointedit" {
		t.Errorf("expected Use 'pointedit', got %q", rootCmd.Use)
	}
	if !strings.Contains(rootCmd.Long, "Place, label, and export points") {
		t.Error("expected description in Long")
	}
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("verbose flag not found")
	}
	if rootCmd.PersistentFlags().Lookup("backend") == nil {
		t.Error("backend flag not found")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug": log.DebugLevel,
		"INFO":  log.InfoLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"bogus": log.WarnLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSkipStoreAnnotations(t *testing.T) {
	for _, cmd := range []*cobra.Command{syncStatusCmd, syncLinkCmd} {
		if cmd.Annotations[skipStoreAnnotation] != "true" {
			t.Errorf("expected %q to skip opening the store", cmd.Name())
		}
	}
	for _, cmd := range []*cobra.Command{syncNowCmd, syncResetCmd} {
		if cmd.Annotations[skipStoreAnnotation] == "true" {
			t.Errorf("'sync %s' needs the store", cmd.Name())
		}
	}
}

// Tests for argument parsing

func TestParseIndex(t *testing.T) {
	if got, err := parseIndex("3"); err != nil || got != 2 {
		t.Errorf("parseIndex(\"3\") = %d, %v", got, err)
	}
	for _, bad := range []string{"0", "-1", "two", ""} {
		if _, err := parseIndex(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseLocation(t *testing.T) {
	in, err := parseLocation("41.8781", "-87.6298")
	if err != nil {
		t.Fatalf("parseLocation failed: %v", err)
	}
	loc, err := in.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if loc != (models.Location{41.8781, -87.6298}) {
		t.Errorf("unexpected location %v", loc)
	}

	if _, err := parseLocation("91", "0"); err == nil {
		t.Error("expected latitude range error")
	}
	if _, err := parseLocation("0", "east"); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseLocationLine(t *testing.T) {
	for _, line := range []string{"1 2", "1,2", "1, 2", "1\t2"} {
		if _, err := parseLocationLine(line); err != nil {
			t.Errorf("parseLocationLine(%q) failed: %v", line, err)
		}
	}
	if _, err := parseLocationLine("1 2 3"); err == nil {
		t.Error("expected error for three fields")
	}
}

// Tests for addCmd

func TestAddCmd_Metadata(t *testing.T) {
	if addCmd.Use != "add <latitude> <longitude>" {
		t.Errorf("unexpected Use: %q", addCmd.Use)
	}
	labelFlag := addCmd.Flags().Lookup("label")
	if labelFlag == nil || labelFlag.Shorthand != "l" {
		t.Fatal("expected label flag with shorthand 'l'")
	}
}

func TestAddCmd_DefaultLabel(t *testing.T) {
	testSession(t)

	if _, err := run(addCmd, "", "41.8781", "-87.6298"); err != nil {
		t.Fatalf("addCmd failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
	if pts[0].Label != "Point 1" {
		t.Errorf("expected default label, got %q", pts[0].Label)
	}
	if pts[0].Location != (models.Location{41.8781, -87.6298}) {
		t.Errorf("unexpected location %v", pts[0].Location)
	}
}

func TestAddCmd_WithLabel(t *testing.T) {
	testSession(t)
	seed(t, models.Location{0, 0})

	_ = addCmd.Flags().Set("label", "chicago")
	defer func() { _ = addCmd.Flags().Set("label", "") }()

	if _, err := run(addCmd, "", "41.8781", "-87.6298"); err != nil {
		t.Fatalf("addCmd failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 2 || pts[1].Label != "chicago" {
		t.Errorf("unexpected points: %+v", pts)
	}
}

func TestAddCmd_InvalidCoordinates(t *testing.T) {
	testSession(t)

	if _, err := run(addCmd, "", "100", "0"); err == nil {
		t.Error("expected error for latitude out of range")
	}
	if len(stored(t)) != 0 {
		t.Error("no point should be stored")
	}
}

// Tests for listCmd

func TestListCmd_Empty(t *testing.T) {
	testSession(t)

	out, err := run(listCmd, "")
	if err != nil {
		t.Fatalf("listCmd failed: %v", err)
	}
	if !strings.Contains(out, "No points yet") {
		t.Errorf("expected empty message, got %q", out)
	}
}

func TestListCmd_WithPoints(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 2}, models.Location{3, 4})

	out, err := run(listCmd, "")
	if err != nil {
		t.Fatalf("listCmd failed: %v", err)
	}
	if !strings.Contains(out, "Point 1") || !strings.Contains(out, "Point 2") {
		t.Errorf("expected both points, got %q", out)
	}
}

func TestListCmd_JSON(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 2})

	_ = listCmd.Flags().Set("json", "true")
	defer func() { _ = listCmd.Flags().Set("json", "false") }()

	out, err := run(listCmd, "")
	if err != nil {
		t.Fatalf("listCmd failed: %v", err)
	}

	var pts models.Collection
	if err := json.Unmarshal([]byte(out), &pts); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if len(pts) != 1 || pts[0].Location != (models.Location{1, 2}) {
		t.Errorf("unexpected points: %+v", pts)
	}
}

// Tests for moveCmd and labelCmd

func TestMoveCmd(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1}, models.Location{2, 2})

	if _, err := run(moveCmd, "", "2", "10", "20"); err != nil {
		t.Fatalf("moveCmd failed: %v", err)
	}

	pts := stored(t)
	if pts[1].Location != (models.Location{10, 20}) || pts[1].Label != "Point 2" {
		t.Errorf("unexpected point: %+v", pts[1])
	}
}

func TestMoveCmd_OutOfRange(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1})

	_, err := run(moveCmd, "", "5", "10", "20")
	if !errors.Is(err, points.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestLabelCmd(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1})

	if _, err := run(labelCmd, "", "1", "corner", "cafe"); err != nil {
		t.Fatalf("labelCmd failed: %v", err)
	}

	pts := stored(t)
	if pts[0].Label != "corner cafe" || pts[0].Location != (models.Location{1, 1}) {
		t.Errorf("unexpected point: %+v", pts[0])
	}
	if session.Mode() != editor.ModeBrowsing {
		t.Errorf("expected browsing mode, got %v", session.Mode())
	}
}

func TestLabelCmd_Blank(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1})

	_, err := run(labelCmd, "", "1", "  ")
	if !errors.Is(err, editor.ErrLabelRequired) {
		t.Errorf("expected ErrLabelRequired, got %v", err)
	}
	if session.Mode() != editor.ModeBrowsing {
		t.Errorf("expected browsing mode after failure, got %v", session.Mode())
	}
}

// Tests for deleteCmd

func TestDeleteCmd_WithConfirm(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1}, models.Location{2, 2}, models.Location{3, 3})

	_ = deleteCmd.Flags().Set("confirm", "true")
	defer func() { _ = deleteCmd.Flags().Set("confirm", "false") }()

	if _, err := run(deleteCmd, "", "2"); err != nil {
		t.Fatalf("deleteCmd failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 2 || pts[1].Label != "Point 3" {
		t.Errorf("expected later point to shift down, got %+v", pts)
	}
}

func TestDeleteCmd_PromptDeclined(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1})

	out, err := run(deleteCmd, "n\n", "1")
	if err != nil {
		t.Fatalf("deleteCmd failed: %v", err)
	}
	if !strings.Contains(out, "Canceled") {
		t.Errorf("expected cancel message, got %q", out)
	}
	if len(stored(t)) != 1 {
		t.Error("point should not be deleted")
	}
}

func TestDeleteCmd_PromptAccepted(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1})

	if _, err := run(deleteCmd, "yes\n", "1"); err != nil {
		t.Fatalf("deleteCmd failed: %v", err)
	}
	if len(stored(t)) != 0 {
		t.Error("point should be deleted")
	}
}

// Tests for place

func TestPlaceLoop_AddsWithDefaultLabels(t *testing.T) {
	testSession(t)
	var out bytes.Buffer

	err := runPlaceLoop(context.Background(), session, strings.NewReader("1 2\nhere\n3,4\ndone\n"), &out, false)
	if err != nil {
		t.Fatalf("runPlaceLoop failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 2 || pts[1].Label != "Point 2" {
		t.Errorf("unexpected points: %+v", pts)
	}
	if !strings.Contains(out.String(), editor.MsgLocateFailed) {
		t.Errorf("expected locate notice, got %q", out.String())
	}
	if session.Mode() != editor.ModeBrowsing {
		t.Errorf("expected browsing mode after done, got %v", session.Mode())
	}
}

func TestPlaceLoop_LabelPrompt(t *testing.T) {
	testSession(t)
	s := editor.Open(context.Background(), store, editor.WithLabelPrompt(true))
	var out bytes.Buffer

	input := "5 6\n\nHarbor\n7 8\ncancel\ndone\n"
	if err := runPlaceLoop(context.Background(), s, strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("runPlaceLoop failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 1 || pts[0].Label != "Harbor" {
		t.Errorf("expected only the labeled point, got %+v", pts)
	}
	if !strings.Contains(out.String(), "A label is required") {
		t.Errorf("expected label prompt, got %q", out.String())
	}
}

func TestPlaceLoop_EditLabel(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1})
	var out bytes.Buffer

	if err := runPlaceLoop(context.Background(), session, strings.NewReader("edit 1\nRenamed\ndone\n"), &out, false); err != nil {
		t.Fatalf("runPlaceLoop failed: %v", err)
	}

	if got := stored(t)[0].Label; got != "Renamed" {
		t.Errorf("expected relabeled point, got %q", got)
	}
}

func TestPlaceLoop_OnceReturnsError(t *testing.T) {
	testSession(t)
	var out bytes.Buffer

	err := runPlaceLoop(context.Background(), session, strings.NewReader("north south\n"), &out, true)
	if err == nil {
		t.Error("expected error for unparseable location")
	}
}

func TestPlaceCmd_WithArgs(t *testing.T) {
	testSession(t)

	if _, err := run(placeCmd, "", "48.85", "2.35"); err != nil {
		t.Fatalf("placeCmd failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 1 || pts[0].Location != (models.Location{48.85, 2.35}) {
		t.Errorf("unexpected points: %+v", pts)
	}
}

func TestPlaceCmd_LabelPromptUsesRootSession(t *testing.T) {
	testSession(t)
	_ = placeCmd.Flags().Set("label-prompt", "true")
	defer func() { _ = placeCmd.Flags().Set("label-prompt", "false") }()

	if _, err := run(placeCmd, "Tower\n", "48.85", "2.35"); err != nil {
		t.Fatalf("placeCmd failed: %v", err)
	}

	want := models.Collection{{Location: models.Location{48.85, 2.35}, Label: "Tower"}}
	if got := session.Points(); len(got) != 1 || got[0] != want[0] {
		t.Errorf("expected the root session to hold the labeled point, got %+v", got)
	}
	if got := stored(t); len(got) != 1 || got[0] != want[0] {
		t.Errorf("unexpected stored points: %+v", got)
	}
}

func TestPlaceLoop_SaveFailureDoesNotDuplicate(t *testing.T) {
	testSession(t)
	failing := &failingSaveStore{Store: store}
	s := editor.Open(context.Background(), failing, editor.WithLabelPrompt(true))
	var out bytes.Buffer

	input := "1 2\nHome\ndone\n"
	if err := runPlaceLoop(context.Background(), s, strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("runPlaceLoop failed: %v", err)
	}

	if got := s.Points(); len(got) != 1 {
		t.Errorf("expected one point after a failed save, got %+v", got)
	}
	if !strings.Contains(out.String(), editor.MsgSaveFailed) {
		t.Errorf("expected save notice, got %q", out.String())
	}
}

// Tests for export and import

func TestExportCmd_Metadata(t *testing.T) {
	outputFlag := exportCmd.Flags().Lookup("output")
	if outputFlag == nil {
		t.Fatal("output flag not found")
	}
	if outputFlag.DefValue != "points.json" {
		t.Errorf("expected default output points.json, got %q", outputFlag.DefValue)
	}
}

func TestExportCmd_GeoJSON(t *testing.T) {
	tmpDir := testSession(t)
	seed(t, models.Location{41.8781, -87.6298})

	outputFile := filepath.Join(tmpDir, "export.json")
	_ = exportCmd.Flags().Set("output", outputFile)
	defer func() { _ = exportCmd.Flags().Set("output", "points.json") }()

	if _, err := run(exportCmd, ""); err != nil {
		t.Fatalf("exportCmd failed: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("export file not created: %v", err)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("invalid GeoJSON: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("unexpected collection: %+v", fc)
	}
	if c := fc.Features[0].Geometry.Coordinates; c[0] != -87.6298 || c[1] != 41.8781 {
		t.Errorf("expected [lng, lat], got %v", c)
	}
}

func TestExportCmd_Stdout(t *testing.T) {
	testSession(t)

	_ = exportCmd.Flags().Set("output", "-")
	defer func() { _ = exportCmd.Flags().Set("output", "points.json") }()

	out, err := run(exportCmd, "")
	if err != nil {
		t.Fatalf("exportCmd failed: %v", err)
	}
	if !strings.Contains(out, "FeatureCollection") {
		t.Errorf("expected GeoJSON on stdout, got %q", out)
	}
}

func TestImportCmd_AppendsPoints(t *testing.T) {
	tmpDir := testSession(t)
	seed(t, models.Location{0, 0})

	file := filepath.Join(tmpDir, "in.geojson")
	content := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[2.35,48.85]},"properties":{"label":"Paris"}},
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{}}
	]}`
	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(importCmd, "", file); err != nil {
		t.Fatalf("importCmd failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[1].Label != "Paris" || pts[1].Location != (models.Location{48.85, 2.35}) {
		t.Errorf("unexpected imported point: %+v", pts[1])
	}
}

func TestImportCmd_FileNotFound(t *testing.T) {
	testSession(t)
	if _, err := run(importCmd, "", "/nonexistent/file.geojson"); err == nil {
		t.Error("expected error for missing file")
	}
}

// Tests for backup and restore

func TestBackupAndRestore(t *testing.T) {
	tmpDir := testSession(t)
	seed(t, models.Location{1, 1}, models.Location{2, 2})

	backupFile := filepath.Join(tmpDir, "backup.yaml")
	_ = backupCmd.Flags().Set("output", backupFile)
	defer func() { _ = backupCmd.Flags().Set("output", "") }()

	if _, err := run(backupCmd, ""); err != nil {
		t.Fatalf("backupCmd failed: %v", err)
	}

	if _, err := session.Dispatch(context.Background(), points.NewDeletePoint(0)); err != nil {
		t.Fatal(err)
	}

	_ = restoreCmd.Flags().Set("confirm", "true")
	defer func() { _ = restoreCmd.Flags().Set("confirm", "false") }()

	if _, err := run(restoreCmd, "", backupFile); err != nil {
		t.Fatalf("restoreCmd failed: %v", err)
	}

	pts := stored(t)
	if len(pts) != 2 || pts[0].Label != "Point 1" || pts[1].Label != "Point 2" {
		t.Errorf("expected restored points, got %+v", pts)
	}
}

func TestRestoreCmd_PromptDeclined(t *testing.T) {
	tmpDir := testSession(t)

	data, err := storage.ExportBackup(models.Collection{{Location: models.Location{1, 1}, Label: "A"}})
	if err != nil {
		t.Fatal(err)
	}
	backupFile := filepath.Join(tmpDir, "backup.yaml")
	if err := os.WriteFile(backupFile, data, 0600); err != nil {
		t.Fatal(err)
	}

	out, err := run(restoreCmd, "n\n", backupFile)
	if err != nil {
		t.Fatalf("restoreCmd failed: %v", err)
	}
	if !strings.Contains(out, "Canceled") {
		t.Errorf("expected cancel message, got %q", out)
	}
	if len(stored(t)) != 0 {
		t.Error("nothing should be restored")
	}
}

// Tests for migrate

func TestMigrateCmd_ToSQLite(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 1}, models.Location{2, 2})

	targetDir := t.TempDir()
	migrateTo, migrateDataDir = storage.BackendSQLite, targetDir
	defer func() { migrateTo, migrateDataDir = "", "" }()

	migrateCmd.SetContext(context.Background())
	if err := runMigrate(migrateCmd, nil); err != nil {
		t.Fatalf("runMigrate failed: %v", err)
	}

	dst, err := storage.NewSQLiteStore(context.Background(), filepath.Join(targetDir, "points.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Close()

	pts, err := dst.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 2 {
		t.Errorf("expected 2 migrated points, got %d", len(pts))
	}
}

func TestMigrateCmd_UnknownBackend(t *testing.T) {
	testSession(t)

	migrateTo = "markdown"
	defer func() { migrateTo = "" }()

	migrateCmd.SetContext(context.Background())
	if err := runMigrate(migrateCmd, nil); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestMigrateCmd_SameBackend(t *testing.T) {
	testSession(t)

	migrateTo = storage.BackendFile
	defer func() { migrateTo = "" }()

	migrateCmd.SetContext(context.Background())
	if err := runMigrate(migrateCmd, nil); err == nil {
		t.Error("expected error when migrating onto the current store")
	}
}

// Tests for sync and mcp

func TestSyncNowCmd_NotSyncable(t *testing.T) {
	testSession(t)

	if _, err := run(syncNowCmd, ""); !errors.Is(err, errNotSyncable) {
		t.Errorf("expected errNotSyncable, got %v", err)
	}
}

// failingSaveStore reads from a real store and refuses every save.
type failingSaveStore struct {
	storage.Store
}

func (failingSaveStore) Save(context.Context, models.Collection) error {
	return errors.New("disk full")
}

// resettableStore stands in for the charm store's reset without a server.
type resettableStore struct {
	storage.Store
	resets int
}

func (r *resettableStore) Reset() error {
	r.resets++
	return nil
}

func TestSyncResetCmd_NotSyncable(t *testing.T) {
	testSession(t)

	if _, err := run(syncResetCmd, "y\n"); !errors.Is(err, errNotSyncable) {
		t.Errorf("expected errNotSyncable, got %v", err)
	}
}

func TestSyncResetCmd(t *testing.T) {
	testSession(t)
	seed(t, models.Location{1, 2})
	rs := &resettableStore{Store: store}
	store = rs

	out, err := run(syncResetCmd, "n\n")
	if err != nil {
		t.Fatalf("sync reset failed: %v", err)
	}
	if rs.resets != 0 || !strings.Contains(out, "Canceled.") {
		t.Errorf("expected declined reset to do nothing, resets=%d out=%q", rs.resets, out)
	}

	out, err = run(syncResetCmd, "y\n")
	if err != nil {
		t.Fatalf("sync reset failed: %v", err)
	}
	if rs.resets != 1 {
		t.Errorf("expected one reset, got %d", rs.resets)
	}
	if !strings.Contains(out, "1 points") {
		t.Errorf("expected reloaded count in output, got %q", out)
	}
}

func TestMcpCmd_Metadata(t *testing.T) {
	if mcpCmd.Use != "mcp" {
		t.Errorf("expected Use 'mcp', got %q", mcpCmd.Use)
	}
}
