// Package android reads the Android collaborator files playprep inspects:
// the app-level build.gradle and AndroidManifest.xml.
package android

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Build configuration fields, in the order they are reported.
const (
	FieldApplicationID = "applicationId"
	FieldVersionCode   = "versionCode"
	FieldVersionName   = "versionName"
	FieldMinSDK        = "minSdkVersion"
	FieldCompileSDK    = "compileSdkVersion"
	FieldTargetSDK     = "targetSdkVersion"
)

// Fields lists the required build configuration fields in report order.
var Fields = []string{
	FieldApplicationID,
	FieldVersionCode,
	FieldVersionName,
	FieldMinSDK,
	FieldCompileSDK,
	FieldTargetSDK,
}

var fieldPatterns = map[string]*regexp.Regexp{
	FieldApplicationID: quotedField(FieldApplicationID),
	FieldVersionCode:   numericField(FieldVersionCode),
	FieldVersionName:   quotedField(FieldVersionName),
	FieldMinSDK:        numericField(FieldMinSDK),
	FieldCompileSDK:    numericField(FieldCompileSDK),
	FieldTargetSDK:     numericField(FieldTargetSDK),
}

var minifyPattern = regexp.MustCompile(`minifyEnabled\s*=?\s*true\b`)

func quotedField(name string) *regexp.Regexp {
	return regexp.MustCompile(name + `\s*=?\s*["']([^"']+)["']`)
}

func numericField(name string) *regexp.Regexp {
	return regexp.MustCompile(name + `\s*=?\s*(\d+)`)
}

// BuildFile is the text of a Groovy build.gradle file.
type BuildFile struct {
	content string
}

// ReadBuildFile loads a build.gradle file from disk.
func ReadBuildFile(path string) (*BuildFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build file %s: %w", path, err)
	}
	return ParseBuildFile(string(data)), nil
}

// ParseBuildFile wraps build.gradle content.
func ParseBuildFile(content string) *BuildFile {
	return &BuildFile{content: content}
}

// Field extracts the first value assigned to one of the known fields.
func (b *BuildFile) Field(name string) (string, bool) {
	re, ok := fieldPatterns[name]
	if !ok {
		return "", false
	}
	m := re.FindStringSubmatch(b.content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HasSigningConfigs reports whether a signingConfigs block is declared.
func (b *BuildFile) HasSigningConfigs() bool {
	return strings.Contains(b.content, "signingConfigs")
}

// MinifyEnabled reports whether any build type enables minification.
func (b *BuildFile) MinifyEnabled() bool {
	return minifyPattern.MatchString(b.content)
}

// HasReleaseBlock reports whether a release build type or signing config is declared.
func (b *BuildFile) HasReleaseBlock() bool {
	return strings.Contains(b.content, "release {")
}

// Contains reports whether the raw text contains s.
func (b *BuildFile) Contains(s string) bool {
	return strings.Contains(b.content, s)
}
