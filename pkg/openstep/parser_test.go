package openstep

import (
	"strings"
	"testing"
)

func TestParseEmptyDict(t *testing.T) {
	doc, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root.Len() != 0 {
		t.Errorf("root length = %d, want 0", doc.Root.Len())
	}
}

func TestParseScalarFields(t *testing.T) {
	src := "{\n\tarchiveVersion = 1;\n\tobjectVersion = 46;\n\trootObject = F00;\n}\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, ok := doc.Root.GetString("archiveVersion"); !ok || got != "1" {
		t.Errorf("archiveVersion = %q, %v, want \"1\", true", got, ok)
	}
	if got, ok := doc.Root.GetString("objectVersion"); !ok || got != "46" {
		t.Errorf("objectVersion = %q, %v, want \"46\", true", got, ok)
	}
	keys := doc.Root.Keys()
	want := []string{"archiveVersion", "objectVersion", "rootObject"}
	if len(keys) != len(want) {
		t.Fatalf("keys length = %d, want %d", len(keys), len(want))
	}
	for i, k := range keys {
		if k != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, k, want[i])
		}
	}
}

func TestParseHeadComment(t *testing.T) {
	src := "// !$*UTF8*$!\n{\n}\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.HeadComment != "!$*UTF8*$!" {
		t.Errorf("HeadComment = %q, want %q", doc.HeadComment, "!$*UTF8*$!")
	}
}

func TestParseNoHeadComment(t *testing.T) {
	doc, err := Parse([]byte("{ a = b; }"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.HeadComment != "" {
		t.Errorf("HeadComment = %q, want empty", doc.HeadComment)
	}
}

func TestParseKeyAnnotation(t *testing.T) {
	src := "{\n\tAB12 /* App.swift */ = {isa = PBXFileReference; };\n}\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.Root.Comment("AB12"); got != "App.swift" {
		t.Errorf("comment = %q, want %q", got, "App.swift")
	}
	inner, ok := doc.Root.GetDict("AB12")
	if !ok {
		t.Fatalf("AB12 is not a dict")
	}
	if isa, _ := inner.GetString("isa"); isa != "PBXFileReference" {
		t.Errorf("isa = %q, want PBXFileReference", isa)
	}
}

func TestParseValueAnnotation(t *testing.T) {
	src := "{ fileRef = AB12 /* App.swift */; }"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, _ := doc.Root.GetString("fileRef"); got != "AB12" {
		t.Errorf("fileRef = %q, want AB12", got)
	}
	if got := doc.Root.Comment("fileRef"); got != "App.swift" {
		t.Errorf("comment = %q, want %q", got, "App.swift")
	}
}

func TestParseArrayElements(t *testing.T) {
	src := "{ files = (\n\tAB12 /* App.swift in Sources */,\n\tCD34,\n); }"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	arr, ok := doc.Root.GetArray("files")
	if !ok {
		t.Fatalf("files is not an array")
	}
	if arr.Len() != 2 {
		t.Fatalf("files length = %d, want 2", arr.Len())
	}
	if v, ok := arr.Elems[0].Value.(String); !ok || string(v) != "AB12" {
		t.Errorf("elem[0] = %#v, want AB12", arr.Elems[0].Value)
	}
	if arr.Elems[0].Comment != "App.swift in Sources" {
		t.Errorf("elem[0] comment = %q, want %q", arr.Elems[0].Comment, "App.swift in Sources")
	}
	if arr.Elems[1].Comment != "" {
		t.Errorf("elem[1] comment = %q, want empty", arr.Elems[1].Comment)
	}
}

func TestParseArrayWithoutTrailingComma(t *testing.T) {
	doc, err := Parse([]byte("{ a = (x, y); }"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	arr, _ := doc.Root.GetArray("a")
	if arr.Len() != 2 {
		t.Errorf("length = %d, want 2", arr.Len())
	}
}

func TestParseEmptyArray(t *testing.T) {
	doc, err := Parse([]byte("{ a = (); }"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	arr, ok := doc.Root.GetArray("a")
	if !ok || arr.Len() != 0 {
		t.Errorf("a = %#v, want empty array", arr)
	}
}

func TestParseNestedDicts(t *testing.T) {
	src := "{ objects = { AB = { isa = PBXGroup; children = (); }; }; }"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	objects, ok := doc.Root.GetDict("objects")
	if !ok {
		t.Fatalf("objects missing")
	}
	ab, ok := objects.GetDict("AB")
	if !ok {
		t.Fatalf("AB missing")
	}
	if isa, _ := ab.GetString("isa"); isa != "PBXGroup" {
		t.Errorf("isa = %q, want PBXGroup", isa)
	}
}

func TestParseSectionCommentsDiscarded(t *testing.T) {
	src := "{\n\tobjects = {\n" +
		"/* Begin PBXBuildFile section */\n" +
		"\t\tAB12 /* App.swift in Sources */ = {isa = PBXBuildFile; fileRef = CD34; };\n" +
		"/* End PBXBuildFile section */\n" +
		"\t};\n}\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	objects, _ := doc.Root.GetDict("objects")
	if objects.Len() != 1 {
		t.Fatalf("objects length = %d, want 1", objects.Len())
	}
	if got := objects.Comment("AB12"); got != "App.swift in Sources" {
		t.Errorf("AB12 comment = %q, want %q", got, "App.swift in Sources")
	}
}

func TestParseQuotedStrings(t *testing.T) {
	src := `{ "a key" = "与 value"; INFOPLIST_FILE = "App/Info.plist"; }`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, ok := doc.Root.GetString("a key"); !ok || got != "与 value" {
		t.Errorf("a key = %q, %v", got, ok)
	}
	if got, _ := doc.Root.GetString("INFOPLIST_FILE"); got != "App/Info.plist" {
		t.Errorf("INFOPLIST_FILE = %q", got)
	}
}

func TestParseStringEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"\U0041"`, "A"},
		{`"\101"`, "A"},
		{`"\q"`, "q"},
	}
	for _, c := range cases {
		doc, err := Parse([]byte("{ k = " + c.in + "; }"))
		if err != nil {
			t.Fatalf("Parse %s: %v", c.in, err)
		}
		if got, _ := doc.Root.GetString("k"); got != c.want {
			t.Errorf("%s = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseDuplicateKeyLastWins(t *testing.T) {
	doc, err := Parse([]byte("{ a = 1; a = 2; }"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root.Len() != 1 {
		t.Errorf("length = %d, want 1", doc.Root.Len())
	}
	if got, _ := doc.Root.GetString("a"); got != "2" {
		t.Errorf("a = %q, want 2", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		line int
		col  int
	}{
		{"missing semi", "{\n\ta = b\n}\n", 3, 1},
		{"missing value", "{\n a = ;\n}", 2, 6},
		{"missing equals", "{ a b; }", 1, 5},
		{"no root dict", "foo", 1, 1},
		{"unterminated string", `{ a = "open; }`, 1, 7},
		{"unterminated comment", "{ a = b /* open ; }", 1, 9},
		{"unterminated dict", "{ a = b; ", 1, 10},
		{"array bad separator", "{ a = (x y); }", 1, 10},
		{"trailing garbage", "{} extra", 1, 4},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.src))
		if err == nil {
			t.Errorf("%s: expected error, got none", c.name)
			continue
		}
		serr, ok := err.(*SyntaxError)
		if !ok {
			t.Errorf("%s: error type = %T, want *SyntaxError", c.name, err)
			continue
		}
		if serr.Pos.Line != c.line || serr.Pos.Col != c.col {
			t.Errorf("%s: position = %d:%d, want %d:%d (%v)",
				c.name, serr.Pos.Line, serr.Pos.Col, c.line, c.col, serr)
		}
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := Parse([]byte("{\n\ta = b\n}\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "line 3:1") {
		t.Errorf("message %q does not name the position", msg)
	}
	if !strings.Contains(msg, "expected") {
		t.Errorf("message %q does not list expectations", msg)
	}
}

func TestParseRealisticProjectSkeleton(t *testing.T) {
	src := "// !$*UTF8*$!\n" +
		"{\n" +
		"\tarchiveVersion = 1;\n" +
		"\tclasses = {\n\t};\n" +
		"\tobjectVersion = 46;\n" +
		"\tobjects = {\n" +
		"\n" +
		"/* Begin PBXFileReference section */\n" +
		"\t\t1A2B3C4D5E6F708192A3B4C5 /* main.m */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.c.objc; path = main.m; sourceTree = \"<group>\"; };\n" +
		"/* End PBXFileReference section */\n" +
		"\n" +
		"/* Begin PBXProject section */\n" +
		"\t\tD41D8CD98F00B204E9800998 /* Project object */ = {\n" +
		"\t\t\tisa = PBXProject;\n" +
		"\t\t\tbuildConfigurationList = AABBCCDDEEFF001122334455 /* Build configuration list for PBXProject \"demo\" */;\n" +
		"\t\t\ttargets = (\n" +
		"\t\t\t);\n" +
		"\t\t};\n" +
		"/* End PBXProject section */\n" +
		"\t};\n" +
		"\trootObject = D41D8CD98F00B204E9800998 /* Project object */;\n" +
		"}\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	objects, ok := doc.Root.GetDict("objects")
	if !ok {
		t.Fatalf("objects missing")
	}
	if objects.Len() != 2 {
		t.Fatalf("objects length = %d, want 2", objects.Len())
	}
	proj, ok := objects.GetDict("D41D8CD98F00B204E9800998")
	if !ok {
		t.Fatalf("project object missing")
	}
	if got := proj.Comment("buildConfigurationList"); got != `Build configuration list for PBXProject "demo"` {
		t.Errorf("buildConfigurationList comment = %q", got)
	}
	if got := doc.Root.Comment("rootObject"); got != "Project object" {
		t.Errorf("rootObject comment = %q", got)
	}
}
