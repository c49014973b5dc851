package document

import (
	"errors"
	"reflect"
	"testing"

	"site2docs/models"
	"site2docs/pkg/graph"
)

func TestResolvePages(t *testing.T) {
	clusters := []graph.Cluster{
		{ClusterID: "cl_a", PageIDs: []string{"pg_001", "pg_002"}},
		{ClusterID: "cl_b", PageIDs: []string{"pg_003"}},
	}
	pages := []models.ExtractedPage{
		{PageID: "pg_001"},
		{PageID: "pg_002"},
		{PageID: "pg_003"},
	}

	resolved, err := ResolvePages(clusters, pages)
	if err != nil {
		t.Fatalf("ResolvePages() error = %v", err)
	}
	if len(resolved["cl_a"]) != 2 || len(resolved["cl_b"]) != 1 {
		t.Errorf("unexpected membership: %+v", resolved)
	}
	if resolved["cl_a"][0].PageID != "pg_001" || resolved["cl_a"][1].PageID != "pg_002" {
		t.Errorf("members out of page_id order: %+v", resolved["cl_a"])
	}
}

func TestResolvePagesEnumeratesAllMissing(t *testing.T) {
	clusters := []graph.Cluster{
		{ClusterID: "cl_b", PageIDs: []string{"pg_404", "pg_001"}},
		{ClusterID: "cl_a", PageIDs: []string{"pg_500"}},
	}
	pages := []models.ExtractedPage{{PageID: "pg_001"}}

	_, err := ResolvePages(clusters, pages)
	if err == nil {
		t.Fatal("ResolvePages() succeeded with unresolved page ids")
	}
	var validationErr *ClusterValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error type = %T, want *ClusterValidationError", err)
	}

	want := map[string][]string{
		"cl_a": {"pg_500"},
		"cl_b": {"pg_404"},
	}
	if !reflect.DeepEqual(validationErr.Missing, want) {
		t.Errorf("Missing = %v, want %v", validationErr.Missing, want)
	}

	message := validationErr.Error()
	wantMessage := "clusters reference unresolved page ids: cl_a: [pg_500]; cl_b: [pg_404]"
	if message != wantMessage {
		t.Errorf("Error() = %q, want %q", message, wantMessage)
	}
}
