package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spboyer/brandqc/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one batch run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one image.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents an image that scored below the pass threshold.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents an image that could not be evaluated.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a test as skipped.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a BatchReport to JUnit XML format. Every image is
// a test case: a Fail verdict is a failure and an image that could not be
// evaluated is an error.
func ConvertToJUnit(report *models.BatchReport) *JUnitTestSuites {
	durationSec := float64(report.DurationMs) / 1000.0
	s := report.Summary

	suite := JUnitTestSuite{
		Name:      report.Brand + " image QC",
		Tests:     s.Total,
		Failures:  s.Failed,
		Errors:    s.Errored,
		Time:      durationSec,
		Timestamp: report.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "brand", Value: report.Brand},
			{Name: "rubric_version", Value: report.RubricVersion},
			{Name: "run_id", Value: report.RunID},
			{Name: "mean_score", Value: fmt.Sprintf("%.2f", s.MeanScore)},
		},
	}

	for i := range report.Reviews {
		suite.TestCases = append(suite.TestCases, convertReview(report.Brand, &report.Reviews[i]))
	}
	for _, f := range report.Failures {
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      f.ImageID,
			Classname: report.Brand,
			Error: &JUnitError{
				Message: f.Error,
				Type:    errorType(f.Kind),
			},
		})
	}

	return &JUnitTestSuites{
		Tests:      s.Total,
		Failures:   s.Failed,
		Errors:     s.Errored,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func convertReview(brand string, review *models.ReviewResult) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      review.ImageID,
		Classname: brand,
	}
	if !review.Verdict.Passed() {
		tc.Failure = buildFailure(review)
	}
	return tc
}

func buildFailure(review *models.ReviewResult) *JUnitFailure {
	return &JUnitFailure{
		Message: fmt.Sprintf("%s: score=%.2f, threshold=%.2f", review.ImageID, review.AggregateScore, review.PassThreshold),
		Type:    "BrandQCFailure",
		Body:    formatLowCriteria(review),
	}
}

// formatLowCriteria lists the criteria scoring below the suggestion cutoff,
// in rubric order, each with its suggestion when there is one.
func formatLowCriteria(review *models.ReviewResult) string {
	suggestions := make(map[string]string, len(review.Suggestions))
	for _, s := range review.Suggestions {
		if name, text, ok := strings.Cut(s, ": "); ok {
			suggestions[name] = text
		}
	}

	sources := make(map[string]models.ScoreSource, len(review.Criteria))
	for _, c := range review.Criteria {
		sources[c.Criterion] = c.Source
	}

	var b strings.Builder
	for _, name := range review.Below(lowScore) {
		score, _ := review.Score(name)
		fmt.Fprintf(&b, "[LOW] %s (%s): score=%d/5", name, sources[name], score)
		if text := suggestions[name]; text != "" {
			fmt.Fprintf(&b, ", %s", text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func errorType(kind string) string {
	switch kind {
	case "invalid_image":
		return "InvalidImage"
	case "missing_manual_score":
		return "MissingManualScore"
	default:
		return "EvaluationError"
	}
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(report *models.BatchReport, path string) error {
	suites := ConvertToJUnit(report)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
