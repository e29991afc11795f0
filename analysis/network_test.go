package analysis

import (
	"strings"
	"testing"

	"github.com/sasangkyoo/slap/models"
)

func TestAnalyzeNetwork_EmptyLog(t *testing.T) {
	sum := AnalyzeNetwork(nil)

	if sum.TotalCaptured != 0 {
		t.Errorf("TotalCaptured = %d, want 0", sum.TotalCaptured)
	}
	if sum.XHRFetchCount != 0 {
		t.Errorf("XHRFetchCount = %d, want 0", sum.XHRFetchCount)
	}
	for _, key := range []string{models.Status401, models.Status403, models.Status429} {
		if n, ok := sum.BlockingSignals[key]; !ok || n != 0 {
			t.Errorf("BlockingSignals[%s] = %d (present=%v), want 0 present", key, n, ok)
		}
	}
	for _, key := range []string{models.BucketJSON, models.BucketHTML, models.BucketGraphQL} {
		if n, ok := sum.DataTypes[key]; !ok || n != 0 {
			t.Errorf("DataTypes[%s] = %d (present=%v), want 0 present", key, n, ok)
		}
	}
	if sum.SuspectedAPIs == nil {
		t.Error("SuspectedAPIs is nil, want empty slice")
	}
	if len(sum.SuspectedAPIs) != 0 {
		t.Errorf("SuspectedAPIs = %v, want empty", sum.SuspectedAPIs)
	}
}

func TestAnalyzeNetwork_CountsAndBuckets(t *testing.T) {
	log := []models.NetworkLogEntry{
		{Type: models.ResourceXHR, Status: 200, ContentType: "application/json", URL: "https://site/api/a"},
		{Type: models.ResourceFetch, Status: 401, ContentType: "application/json; charset=utf-8", URL: "https://site/api/b"},
		{Type: models.ResourceDocument, Status: 200, ContentType: "text/html", URL: "https://site/"},
		{Type: models.ResourceXHR, Status: 429, ContentType: "text/plain", URL: "https://site/api/c"},
		{Type: models.ResourceFetch, Status: 403, ContentType: "application/json", URL: "https://site/api/d", IsGraphQL: true},
	}

	sum := AnalyzeNetwork(log)

	if sum.TotalCaptured != 5 {
		t.Errorf("TotalCaptured = %d, want 5", sum.TotalCaptured)
	}
	if sum.XHRFetchCount != 4 {
		t.Errorf("XHRFetchCount = %d, want 4", sum.XHRFetchCount)
	}
	if sum.XHRFetchCount > sum.TotalCaptured {
		t.Error("XHRFetchCount exceeds TotalCaptured")
	}

	if sum.BlockingSignals[models.Status401] != 1 {
		t.Errorf("401 count = %d, want 1", sum.BlockingSignals[models.Status401])
	}
	if sum.BlockingSignals[models.Status403] != 1 {
		t.Errorf("403 count = %d, want 1", sum.BlockingSignals[models.Status403])
	}
	if sum.BlockingSignals[models.Status429] != 1 {
		t.Errorf("429 count = %d, want 1", sum.BlockingSignals[models.Status429])
	}

	// The GraphQL-flagged entry carries a JSON content type but must be
	// counted in the graphql bucket only.
	if sum.DataTypes[models.BucketGraphQL] != 1 {
		t.Errorf("graphql bucket = %d, want 1", sum.DataTypes[models.BucketGraphQL])
	}
	if sum.DataTypes[models.BucketJSON] != 2 {
		t.Errorf("json bucket = %d, want 2", sum.DataTypes[models.BucketJSON])
	}
	if sum.DataTypes[models.BucketHTML] != 1 {
		t.Errorf("html bucket = %d, want 1", sum.DataTypes[models.BucketHTML])
	}

	bucketed := sum.DataTypes[models.BucketGraphQL] + sum.DataTypes[models.BucketJSON] + sum.DataTypes[models.BucketHTML]
	if bucketed > sum.TotalCaptured {
		t.Errorf("bucket sum %d exceeds TotalCaptured %d", bucketed, sum.TotalCaptured)
	}
}

func TestAnalyzeNetwork_SuspectedAPIs(t *testing.T) {
	log := []models.NetworkLogEntry{
		{Type: models.ResourceXHR, ContentType: "application/json", URL: "https://site/api/items"},
		{Type: models.ResourceXHR, ContentType: "application/json", URL: "https://site/api/items"},
		{Type: models.ResourceFetch, ContentType: "text/html", URL: "https://site/fragment"},
		{Type: models.ResourceDocument, ContentType: "application/json", URL: "https://site/manifest.json"},
		{Type: models.ResourceFetch, ContentType: "text/plain", URL: "https://site/graphql", IsGraphQL: true},
	}

	sum := AnalyzeNetwork(log)

	want := []string{"https://site/api/items", "https://site/graphql"}
	if len(sum.SuspectedAPIs) != len(want) {
		t.Fatalf("SuspectedAPIs = %v, want %v", sum.SuspectedAPIs, want)
	}
	for i, u := range want {
		if sum.SuspectedAPIs[i] != u {
			t.Errorf("SuspectedAPIs[%d] = %q, want %q", i, sum.SuspectedAPIs[i], u)
		}
	}
}

func TestAnalyzeNetwork_SuspectedAPIsCapped(t *testing.T) {
	var log []models.NetworkLogEntry
	for i := 0; i < 25; i++ {
		log = append(log, models.NetworkLogEntry{
			Type:        models.ResourceXHR,
			ContentType: "application/json",
			URL:         "https://site/api/" + strings.Repeat("x", i+1),
		})
	}

	sum := AnalyzeNetwork(log)

	if len(sum.SuspectedAPIs) != 10 {
		t.Errorf("SuspectedAPIs length = %d, want 10", len(sum.SuspectedAPIs))
	}
}

func TestIsGraphQL(t *testing.T) {
	longBody := strings.Repeat(" ", 300) + `"query"`

	cases := []struct {
		name        string
		method      string
		url         string
		contentType string
		postBody    string
		want        bool
	}{
		{"url contains graphql", "GET", "https://site/GraphQL", "", "", true},
		{"graphql content type", "POST", "https://site/data", "application/graphql", "", true},
		{"post body query keyword", "POST", "https://site/data", "application/json", `{"query": "{ items { id } }"}`, true},
		{"post body mutation keyword", "POST", "https://site/data", "application/json", `{"mutation": "..."}`, true},
		{"post body single quotes", "POST", "https://site/data", "application/json", `{'query': '...'}`, true},
		{"get with query body", "GET", "https://site/data", "application/json", `{"query": "..."}`, false},
		{"keyword beyond preview window", "POST", "https://site/data", "application/json", longBody, false},
		{"plain json post", "POST", "https://site/data", "application/json", `{"page": 2}`, false},
		{"empty everything", "GET", "https://site/", "", "", false},
	}

	for _, tc := range cases {
		got := IsGraphQL(tc.method, tc.url, tc.contentType, tc.postBody)
		if got != tc.want {
			t.Errorf("%s: IsGraphQL = %v, want %v", tc.name, got, tc.want)
		}
		// Classification depends only on the entry's own fields.
		if again := IsGraphQL(tc.method, tc.url, tc.contentType, tc.postBody); again != got {
			t.Errorf("%s: IsGraphQL not idempotent", tc.name)
		}
	}
}
