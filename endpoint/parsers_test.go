package endpoint

import (
	"reflect"
	"testing"

	"github.com/certen/evmscan/provider"
)

// TestEnvelopeParserBalance is literal scenario S1.
func TestEnvelopeParserBalance(t *testing.T) {
	body := []byte(`{"status":"1","message":"OK","result":"4780000000000000000"}`)
	result, err := EnvelopeParser()(body)
	if err != nil {
		t.Fatalf("EnvelopeParser: %v", err)
	}
	if result != "4780000000000000000" {
		t.Errorf("result = %v, want %q", result, "4780000000000000000")
	}
}

// TestEnvelopeParserEmptySuccess is literal scenario S3 / testable property 4.
func TestEnvelopeParserEmptySuccess(t *testing.T) {
	body := []byte(`{"status":"0","message":"No transactions found","result":[]}`)
	result, err := EnvelopeParser()(body)
	if err != nil {
		t.Fatalf("EnvelopeParser: %v", err)
	}
	if !reflect.DeepEqual(result, []any{}) {
		t.Errorf("result = %#v, want empty list", result)
	}
}

func TestEnvelopeParserEmptySuccessRecordsVariant(t *testing.T) {
	body := []byte(`{"status":"0","message":"No records found","result":[]}`)
	result, err := EnvelopeParser()(body)
	if err != nil {
		t.Fatalf("EnvelopeParser: %v", err)
	}
	if !reflect.DeepEqual(result, []any{}) {
		t.Errorf("result = %#v, want empty list", result)
	}
}

// TestEnvelopeParserProviderError is literal scenario S4.
func TestEnvelopeParserProviderError(t *testing.T) {
	body := []byte(`{"status":"0","message":"NOTOK","result":"Invalid API Key"}`)
	_, err := EnvelopeParser()(body)

	perr, ok := err.(*provider.Error)
	if !ok {
		t.Fatalf("expected *provider.Error, got %T (%v)", err, err)
	}
	if perr.Kind != provider.KindProviderError {
		t.Errorf("Kind = %v, want %v", perr.Kind, provider.KindProviderError)
	}
	if perr.RawMessage != "NOTOK" {
		t.Errorf("RawMessage = %q, want %q", perr.RawMessage, "NOTOK")
	}
}

// TestParserPurity is testable property 3.
func TestParserPurity(t *testing.T) {
	body := []byte(`{"status":"1","message":"OK","result":"42"}`)
	r1, err1 := EnvelopeParser()(body)
	r2, err2 := EnvelopeParser()(body)
	if err1 != nil {
		t.Fatalf("first parse: %v", err1)
	}
	if err2 != nil {
		t.Fatalf("second parse: %v", err2)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("parses of the same bytes diverged: %#v != %#v", r1, r2)
	}
}

func TestDirectParser(t *testing.T) {
	body := []byte(`{"balance":"4780000000000000000"}`)
	result, err := DirectParser()(body)
	if err != nil {
		t.Fatalf("DirectParser: %v", err)
	}
	want := map[string]any{"balance": "4780000000000000000"}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("result = %#v, want %#v", result, want)
	}
}

// TestFieldPickBalance is literal scenario S2.
func TestFieldPickBalance(t *testing.T) {
	body := []byte(`{"balance":"4780000000000000000"}`)
	result, err := FieldPick("balance")(body)
	if err != nil {
		t.Fatalf("FieldPick: %v", err)
	}
	if result != "4780000000000000000" {
		t.Errorf("result = %v, want %q", result, "4780000000000000000")
	}
}

func TestFieldPickNestedPath(t *testing.T) {
	body := []byte(`{"data":{"result":"ok"}}`)
	result, err := FieldPick("data.result")(body)
	if err != nil {
		t.Fatalf("FieldPick: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want %q", result, "ok")
	}
}

func TestFieldPickMissingField(t *testing.T) {
	body := []byte(`{"other":"value"}`)
	_, err := FieldPick("balance")(body)
	if err == nil {
		t.Fatal("expected error for missing field")
	}
}

func TestEnvelopeParserMalformedJSON(t *testing.T) {
	_, err := EnvelopeParser()([]byte(`not json`))
	perr, ok := err.(*provider.Error)
	if !ok {
		t.Fatalf("expected *provider.Error, got %T (%v)", err, err)
	}
	if perr.Kind != provider.KindParseError {
		t.Errorf("Kind = %v, want %v", perr.Kind, provider.KindParseError)
	}
}
