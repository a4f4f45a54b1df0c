package templates_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/courier/internal/templates"
)

const templateJSON = `{
  "file": "f-123",
  "signFields": [
    {"type": "annotation", "order": 4, "userRoleId": 11, "config": "{\"customId\":\"Name\"}", "page": 1, "x": 120.5},
    {"type": "signature", "order": 1, "userRoleId": "10", "config": "{}"},
    {"type": "stamp", "order": 7, "userRoleId": 12, "user": ["c@d.com"], "page": 2}
  ],
  "signEntities": [
    {"order": 1, "userRoleId": 10, "shareType": "sign", "shareData": []},
    {"order": 4, "userRoleId": 11, "shareType": "sign", "shareData": [{"message": "Please sign", "mailProtection": true}]},
    {"order": 7, "userRoleId": "12", "shareType": "sign", "shareData": [{"remindersEnabled": true, "remindersStartDays": {"type": "relative", "size": "day", "span": 3}, "remindersIntervalDays": 2}]},
    {"order": 9, "userRoleId": 13, "shareType": "copy", "user": ["archive@corp.example"]}
  ]
}`

func decode(t *testing.T, data string) *templates.Template {
	t.Helper()
	var tpl templates.Template
	if err := json.Unmarshal([]byte(data), &tpl); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	return &tpl
}

func TestDecodeTemplate(t *testing.T) {
	tpl := decode(t, templateJSON)

	if tpl.File != "f-123" {
		t.Errorf("file = %q, want f-123", tpl.File)
	}
	if len(tpl.SignFields) != 3 {
		t.Fatalf("fields = %d, want 3", len(tpl.SignFields))
	}

	annotation := tpl.SignFields[0]
	if annotation.Type != templates.FieldAnnotation {
		t.Errorf("type = %q, want annotation", annotation.Type)
	}
	if annotation.UserRoleID != "11" {
		t.Errorf("numeric userRoleId = %q, want 11", annotation.UserRoleID)
	}
	if annotation.Config.CustomID != "Name" {
		t.Errorf("customId = %q, want Name", annotation.Config.CustomID)
	}

	stamp := tpl.SignFields[2]
	if !stamp.Type.SignatureClass() {
		t.Error("stamp should be signature class")
	}
	if stamp.Address() != "c@d.com" {
		t.Errorf("address = %q, want c@d.com", stamp.Address())
	}

	role, ok := tpl.Entity("12")
	if !ok {
		t.Fatal("role 12 not found")
	}
	datum := role.Datum()
	if !datum.RemindersEnabled || datum.RemindersIntervalDays == nil || *datum.RemindersIntervalDays != 2 {
		t.Errorf("datum = %+v", datum)
	}
	if !datum.RemindersStartDays.Relative() {
		t.Error("reminder start should be relative")
	}

	signer, ok := tpl.EntityAt(1)
	if !ok {
		t.Fatal("no role at order 1")
	}
	if got := signer.Datum(); got.MailProtection || got.Message != nil {
		t.Errorf("empty share data should yield empty datum, got %+v", got)
	}

	copyRole, ok := tpl.EntityAt(9)
	if !ok {
		t.Fatal("no role at order 9")
	}
	if copyRole.Signing() {
		t.Error("copy role reported as signing")
	}
	if copyRole.Address() != "archive@corp.example" {
		t.Errorf("copy address = %q", copyRole.Address())
	}

	if _, ok := tpl.Entity("99"); ok {
		t.Error("unexpected role 99")
	}
}

func TestFileRefObject(t *testing.T) {
	tpl := decode(t, `{"file": {"fileId": "abc", "name": "contract.pdf"}, "signFields": [], "signEntities": []}`)
	if tpl.File != "abc" {
		t.Errorf("file = %q, want abc", tpl.File)
	}
}

func TestInlineConfigObject(t *testing.T) {
	tpl := decode(t, `{"file": "x", "signFields": [{"type": "annotation", "order": 2, "userRoleId": 1, "config": {"customId": "City"}}]}`)
	if got := tpl.SignFields[0].Config.CustomID; got != "City" {
		t.Errorf("customId = %q, want City", got)
	}
}

func TestInvalidFieldConfig(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"malformed string", `"{customId:"`},
		{"missing", `null`},
		{"wrong shape", `"[1,2]"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := `{"file": "x", "signFields": [{"type": "annotation", "order": 2, "userRoleId": 1, "config": ` + tt.config + `}]}`
			var tpl templates.Template
			err := json.Unmarshal([]byte(data), &tpl)
			if !errors.Is(err, templates.ErrInvalidFieldConfig) {
				t.Errorf("error = %v, want ErrInvalidFieldConfig", err)
			}
		})
	}
}

func TestSignatureConfigNotParsed(t *testing.T) {
	tpl := decode(t, `{"file": "x", "signFields": [{"type": "signature", "order": 1, "userRoleId": 1, "config": "not json"}]}`)
	if tpl.SignFields[0].Config.CustomID != "" {
		t.Error("signature config should not be parsed")
	}
}

func TestFieldMarshalPreservesUnknown(t *testing.T) {
	tpl := decode(t, templateJSON)

	field := tpl.SignFields[0].Clone()
	text := " Alice"
	field.Text = &text

	data, err := json.Marshal(field)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out["page"] != float64(1) || out["x"] != 120.5 {
		t.Errorf("position not preserved: %v", out)
	}
	if out["text"] != " Alice" {
		t.Errorf("text = %v", out["text"])
	}
	if out["userRoleId"] != float64(11) {
		t.Errorf("userRoleId = %v, want raw 11", out["userRoleId"])
	}
	if out["config"] != `{"customId":"Name"}` {
		t.Errorf("config = %v", out["config"])
	}
	if _, ok := out["blob"]; ok {
		t.Error("unset blob should be omitted")
	}
}

func TestCloneIsolation(t *testing.T) {
	tpl := decode(t, templateJSON)
	original := &tpl.SignFields[2]

	clone := original.Clone()
	clone.User[0] = "x@y.com"
	blob := "blob-1"
	clone.Blob = &blob

	if original.User[0] != "c@d.com" {
		t.Errorf("original user mutated: %v", original.User)
	}
	if original.Blob != nil {
		t.Error("original blob mutated")
	}

	data, err := json.Marshal(*original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	json.Unmarshal(data, &out)
	if _, ok := out["blob"]; ok {
		t.Error("original marshals clone's blob")
	}
}
