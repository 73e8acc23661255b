package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
  - id: queue
    type: SQS
    sqs:
      uri: https://sqs.local/queue
      region: us-east-1
      endpoint: http://localhost:4566
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "queue" {
		t.Fatalf("expected http2 and queue enabled, got %#v", enabled)
	}
	q, ok := reg.ByID("queue")
	if !ok || q.Type != TypeSQS || q.SQS.Region != "us-east-1" || q.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("unexpected sqs config %#v", q.SQS)
	}
	if enabled[0].HTTP.Method != "POST" || enabled[0].HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("expected http defaults applied, got %#v", enabled[0].HTTP)
	}
}

func TestLoadRegistryEmptyPathIsEmpty(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.Enabled()) != 0 {
		t.Fatalf("expected no publishers")
	}
}

func TestValidatePublisherConfigRejectsIncompleteBlocks(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn"}},
		{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "q"}},
		{ID: "p1", Type: TypeGCPPubSub, PubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
		{ID: "", Type: TypeHTTP},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}

func TestDigestDependsOnOrder(t *testing.T) {
	if Digest("success", []string{"a", "b"}, "") == Digest("success", []string{"b", "a"}, "") {
		t.Fatalf("digest must depend on image order")
	}
	if Digest("success", []string{"a"}, "") != Digest("success", []string{"a"}, "") {
		t.Fatalf("digest must be deterministic")
	}
}
