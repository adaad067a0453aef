package markup

import (
	"regexp"
	"strings"

	"tcdump/domain/testmodel"
)

var (
	numericPattern    = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	signalPattern     = regexp.MustCompile(`^"A[0-9]+"$`)
	variablePattern   = regexp.MustCompile(`^"TV_[A-Za-z0-9_]+"$`)
	durationPattern   = regexp.MustCompile(`^([0-9]+ sec|[0-9]+ min)$`)
	comparisonPattern = regexp.MustCompile(`^"(==|!=|>=|<=|>|<)"$`)
)

// Classify returns the category of a value and whether a known pattern matched.
// Unmatched values fall back to Text with recognized == false.
func Classify(value string) (testmodel.Category, bool) {
	value = strings.TrimSpace(value)
	switch {
	case numericPattern.MatchString(value):
		return testmodel.CategoryNumeric, true
	case signalPattern.MatchString(value),
		variablePattern.MatchString(value),
		durationPattern.MatchString(value):
		return testmodel.CategoryText, true
	case comparisonPattern.MatchString(value):
		return testmodel.CategoryComparison, true
	case value == "":
		return testmodel.CategoryEmpty, true
	default:
		return testmodel.CategoryText, false
	}
}

// Categorize returns the category of a value
func Categorize(value string) testmodel.Category {
	category, _ := Classify(value)
	return category
}
