package android

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Namespace is the XML namespace of android:* attributes.
const Namespace = "http://schemas.android.com/apk/res/android"

// Manifest is the subset of AndroidManifest.xml playprep checks.
type Manifest struct {
	Package     string
	Permissions []string
	Application *Application
}

// Application holds the <application> attributes relevant to release checks.
// A nil pointer field means the attribute is absent.
type Application struct {
	AllowBackup           *string
	UsesCleartextTraffic  *string
	NetworkSecurityConfig *string
}

type xmlManifest struct {
	XMLName     xml.Name    `xml:"manifest"`
	Package     string      `xml:"package,attr"`
	Application *xmlElement `xml:"application"`
}

type xmlElement struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// androidAttr returns the value of android:<local>, accepting both a resolved
// namespace and a bare "android" prefix when xmlns:android is not declared.
func (e xmlElement) androidAttr(local string) *string {
	for _, a := range e.Attrs {
		if a.Name.Local != local {
			continue
		}
		if a.Name.Space == Namespace || a.Name.Space == "android" {
			v := a.Value
			return &v
		}
	}
	return nil
}

// ReadManifest loads and parses AndroidManifest.xml from disk.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest parses AndroidManifest.xml content.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw xmlManifest
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	perms, err := usesPermissions(data)
	if err != nil {
		return nil, err
	}
	m := &Manifest{Package: raw.Package, Permissions: perms}
	if raw.Application != nil {
		m.Application = &Application{
			AllowBackup:           raw.Application.androidAttr("allowBackup"),
			UsesCleartextTraffic:  raw.Application.androidAttr("usesCleartextTraffic"),
			NetworkSecurityConfig: raw.Application.androidAttr("networkSecurityConfig"),
		}
	}
	return m, nil
}

// usesPermissions collects uses-permission names at any depth, in document order.
func usesPermissions(data []byte) ([]string, error) {
	var names []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "uses-permission" {
			continue
		}
		if name := (xmlElement{Attrs: start.Attr}).androidAttr("name"); name != nil && *name != "" {
			names = append(names, *name)
		}
	}
}

// HasPermission reports whether the manifest requests the named permission.
func (m *Manifest) HasPermission(name string) bool {
	for _, p := range m.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
