package patch

import (
	"encoding/json"
	"testing"
)

type sample struct {
	Name    Field[string] `json:"name"`
	Remarks Field[string] `json:"remarks"`
	Ctn     Field[int]    `json:"ctn"`
}

func TestFieldDistinguishesMissingFromNull(t *testing.T) {
	var s sample
	if err := json.Unmarshal([]byte(`{"name":"MSKU1","remarks":null}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !s.Name.Set || s.Name.Null || s.Name.Value != "MSKU1" {
		t.Fatalf("name: %+v", s.Name)
	}
	if !s.Remarks.Set || !s.Remarks.Null {
		t.Fatalf("remarks should be explicitly cleared: %+v", s.Remarks)
	}
	if s.Ctn.Set {
		t.Fatalf("ctn was not supplied: %+v", s.Ctn)
	}
}

func TestApply(t *testing.T) {
	dst := "old"
	if (Field[string]{}).Apply(&dst) {
		t.Fatalf("unset field must not apply")
	}
	if !Some("new").Apply(&dst) || dst != "new" {
		t.Fatalf("Apply: got=%q", dst)
	}

	v := 3
	ptr := &v
	if !Clear[int]().ApplyPtr(&ptr) || ptr != nil {
		t.Fatalf("ApplyPtr null should clear")
	}
	if !Some(5).ApplyPtr(&ptr) || ptr == nil || *ptr != 5 {
		t.Fatalf("ApplyPtr value: %v", ptr)
	}
}

func TestDateUnmarshal(t *testing.T) {
	var in struct {
		A Date        `json:"a"`
		B Date        `json:"b"`
		C Field[Date] `json:"c"`
		D *Date       `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a":"2030-04-05","b":"2030-04-05T23:10:00Z","c":null,"d":""}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.A.Format(DateLayout) != "2030-04-05" || in.B.Format(DateLayout) != "2030-04-05" {
		t.Fatalf("dates: a=%s b=%s", in.A, in.B)
	}
	if !in.C.Set || !in.C.Null {
		t.Fatalf("c should be cleared: %+v", in.C)
	}
	if DatePtr(in.D) != nil {
		t.Fatalf("empty string should be no date")
	}
	if err := json.Unmarshal([]byte(`{"a":"05/04/2030"}`), &in); err == nil {
		t.Fatalf("expected error for bad layout")
	}
}
