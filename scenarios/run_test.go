package scenarios

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/modes"
	"github.com/reusee/dscope"
)

func TestBundledScenarios(t *testing.T) {
	g := NewWithT(t)
	paths, err := filepath.Glob(filepath.Join("testdata", "*.cue"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(paths).NotTo(BeEmpty())

	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Call(func(
		runFiles RunFiles,
	) {
		reports, err := runFiles(t.Context(), paths)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(reports).To(HaveLen(13))
		for _, report := range reports {
			g.Expect(report.Err).NotTo(HaveOccurred(), "%s\n%v", report.Name, report.Transcript)
			g.Expect(report.Steps).To(BeNumerically(">", 0))
		}
	})
}

func runSource(t *testing.T, engine *capture.Engine, src string) []*Report {
	t.Helper()
	doc, err := LoadSource("test.cue", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	var reports []*Report
	for name, scenario := range doc {
		reports = append(reports, Run(context.Background(), engine, discard, name, scenario))
	}
	return reports
}

func TestDanglingReject(t *testing.T) {
	g := NewWithT(t)
	engine := &capture.Engine{Dangling: capture.DanglingReject}
	reports := runSource(t, engine, `
scenarios: dangling: steps: [
	{enter: true},
	{let: {name: "str", value: "Hoge"}},
	{define: {name: "f", clause: "[&]", body: "print(cap.str)"}},
	{call: {closure: "f", output: ["Hoge"]}},
	{leave: true},
	{call: {closure: "f", expect_error: "DanglingAlias"}},
]
`)
	g.Expect(reports).To(HaveLen(1))
	g.Expect(reports[0].Err).NotTo(HaveOccurred())
	g.Expect(reports[0].Steps).To(Equal(6))
}

func TestDanglingAllow(t *testing.T) {
	g := NewWithT(t)
	reports := runSource(t, new(capture.Engine), `
scenarios: dangling: steps: [
	{enter: true},
	{let: {name: "str", value: "Hoge"}},
	{define: {name: "f", clause: "[&]", body: "cap.str += '!'; print(cap.str)"}},
	{leave: true},
	{call: {closure: "f", output: ["Hoge!"]}},
	{call: {closure: "f", output: ["Hoge!!"]}},
]
`)
	g.Expect(reports[0].Err).NotTo(HaveOccurred())
}

func TestExpectationFailure(t *testing.T) {
	g := NewWithT(t)
	reports := runSource(t, new(capture.Engine), `
scenarios: wrong: steps: [
	{let: {name: "a", value: 1}},
	{define: {name: "f", clause: "[a]", body: "return cap.a"}},
	{call: {closure: "f", expect: 2}},
	{check: {name: "a", value: 1}},
]
`)
	report := reports[0]
	g.Expect(errors.Is(report.Err, ErrExpectation)).To(BeTrue())
	g.Expect(report.Err.Error()).To(ContainSubstring("step 2"))
	g.Expect(report.Steps).To(Equal(2))
}

func TestUnexpectedSuccess(t *testing.T) {
	g := NewWithT(t)
	reports := runSource(t, new(capture.Engine), `
scenarios: wrong: steps: [
	{let: {name: "a", value: 1}},
	{define: {name: "f", clause: "[a]", body: "pass", expect_error: "DuplicateCapture"}},
]
`)
	g.Expect(errors.Is(reports[0].Err, ErrExpectation)).To(BeTrue())
}

func TestResultTypePanicIsReported(t *testing.T) {
	g := NewWithT(t)
	reports := runSource(t, new(capture.Engine), `
scenarios: wrong: steps: [
	{define: {name: "f", clause: "[]", result: "int", body: "return 'x'"}},
	{call: {closure: "f"}},
]
`)
	g.Expect(reports[0].Err).To(MatchError(ContainSubstring("panic")))
	g.Expect(reports[0].Steps).To(Equal(1))
}

func TestStepWithTwoActions(t *testing.T) {
	g := NewWithT(t)
	reports := runSource(t, new(capture.Engine), `
scenarios: wrong: steps: [
	{enter: true, leave: true},
]
`)
	g.Expect(reports[0].Err).To(MatchError(ContainSubstring("exactly one action")))
}

func TestSchemaRejectsUnknownStep(t *testing.T) {
	g := NewWithT(t)
	_, err := LoadSource("test.cue", []byte(`
scenarios: wrong: steps: [
	{jump: true},
]
`))
	g.Expect(err).To(HaveOccurred())
}

func TestLoadEmpty(t *testing.T) {
	g := NewWithT(t)
	doc, err := LoadSource("empty.cue", []byte(``))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(doc).To(BeEmpty())
}

func TestLoadRejectsBinary(t *testing.T) {
	g := NewWithT(t)
	_, err := LoadSource("image.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("not a text document"))
}

func TestLoadMissingFile(t *testing.T) {
	g := NewWithT(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	g.Expect(err).To(HaveOccurred())
}
