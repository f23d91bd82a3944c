// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrEmptyDN indicates a distinguished name without any attribute.
	ErrEmptyDN = errors.New("pki: distinguished name is empty")

	// ErrMissingCommonName indicates a distinguished name without a commonName.
	ErrMissingCommonName = errors.New("pki: distinguished name has no commonName")
)

// Attribute is a single distinguished name entry. Type is the long attribute
// name (e.g. "commonName"), or the dotted OID for attributes this package does
// not recognize.
type Attribute struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// attributeType describes a recognized attribute.
type attributeType struct {
	long  string
	short string
	alias string
	oid   asn1.ObjectIdentifier
}

// keys lists the exact spellings accepted on input, most specific first.
func (t attributeType) keys() []string {
	keys := []string{t.long, t.short}
	if t.alias != "" {
		keys = append(keys, t.alias)
	}
	return append(keys, t.oid.String())
}

// attributeTypes lists recognized attributes in their canonical issuance order.
var attributeTypes = []attributeType{
	{long: "countryName", short: "C", oid: asn1.ObjectIdentifier{2, 5, 4, 6}},
	{long: "stateOrProvinceName", short: "ST", oid: asn1.ObjectIdentifier{2, 5, 4, 8}},
	{long: "localityName", short: "L", oid: asn1.ObjectIdentifier{2, 5, 4, 7}},
	{long: "organizationName", short: "O", oid: asn1.ObjectIdentifier{2, 5, 4, 10}},
	{long: "organizationalUnitName", short: "OU", oid: asn1.ObjectIdentifier{2, 5, 4, 11}},
	{long: "commonName", short: "CN", oid: asn1.ObjectIdentifier{2, 5, 4, 3}},
	{long: "emailAddress", short: "emailAddress", alias: "E", oid: asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}},
}

// lookupType resolves a long name, a short code, an alias or a dotted OID.
func lookupType(key string) (attributeType, bool) {
	for _, t := range attributeTypes {
		if strings.EqualFold(key, t.long) || slices.Contains(t.keys(), key) {
			return t, true
		}
	}
	return attributeType{}, false
}

func lookupOID(oid asn1.ObjectIdentifier) (attributeType, bool) {
	for _, t := range attributeTypes {
		if t.oid.Equal(oid) {
			return t, true
		}
	}
	return attributeType{}, false
}

// ShortName returns the OpenSSL short name for a long attribute name
// ("commonName" -> "CN"). emailAddress has no abbreviation and maps to itself.
// Unknown names are returned unchanged.
func ShortName(long string) string {
	if t, ok := lookupType(long); ok {
		return t.short
	}
	return long
}

// LongName returns the long attribute name for a short code ("CN" -> "commonName").
// Unknown codes are returned unchanged.
func LongName(short string) string {
	if t, ok := lookupType(short); ok {
		return t.long
	}
	return short
}

// DistinguishedName is an ordered list of identity attributes.
//
// Attributes can be looked up by long name ("commonName") or by short code ("CN").
// The zero value is an empty name.
type DistinguishedName struct {
	attrs []Attribute
}

// NewDistinguishedName builds a name from a mapping of attribute names to values.
//
// Keys may be long names or short codes. Keys that are not recognized and
// empty values are ignored. The resulting attributes follow the canonical
// order C, ST, L, O, OU, CN, emailAddress regardless of map iteration order.
// When one attribute is given under several keys, the long name wins over the
// short code, the short code over the OID, and exact spellings over other cases.
func NewDistinguishedName(fields map[string]string) DistinguishedName {
	var dn DistinguishedName
	for _, t := range attributeTypes {
		if value, ok := pickValue(fields, t); ok {
			dn.attrs = append(dn.attrs, Attribute{Type: t.long, Value: value})
		}
	}
	return dn
}

func pickValue(fields map[string]string, t attributeType) (string, bool) {
	for _, key := range t.keys() {
		if v := fields[key]; v != "" {
			return v, true
		}
	}

	var folded []string
	for key, v := range fields {
		if v != "" && strings.EqualFold(key, t.long) {
			folded = append(folded, key)
		}
	}
	if len(folded) == 0 {
		return "", false
	}
	slices.Sort(folded)
	return fields[folded[0]], true
}

// Validate checks that the name can be used for issuance.
func (dn DistinguishedName) Validate() error {
	if len(dn.attrs) == 0 {
		return ErrEmptyDN
	}
	if v, ok := dn.Get("commonName"); !ok || v == "" {
		return ErrMissingCommonName
	}
	return nil
}

// Get returns the first value of the attribute named by key, which may be a
// long name, a short code or a dotted OID.
func (dn DistinguishedName) Get(key string) (string, bool) {
	want := key
	if t, ok := lookupType(key); ok {
		want = t.long
	}
	for _, a := range dn.attrs {
		if a.Type == want {
			return a.Value, true
		}
	}
	return "", false
}

// Value is like Get but returns an empty string when the attribute is absent.
func (dn DistinguishedName) Value(key string) string {
	v, _ := dn.Get(key)
	return v
}

// Attributes returns a copy of the attributes in order.
func (dn DistinguishedName) Attributes() []Attribute {
	return append([]Attribute(nil), dn.attrs...)
}

// Len returns the number of attributes.
func (dn DistinguishedName) Len() int { return len(dn.attrs) }

// IsEmpty reports whether the name has no attributes.
func (dn DistinguishedName) IsEmpty() bool { return len(dn.attrs) == 0 }

// Map returns the attributes keyed by long name. Repeated attributes keep the first value.
func (dn DistinguishedName) Map() map[string]string {
	m := make(map[string]string, len(dn.attrs))
	for _, a := range dn.attrs {
		if _, ok := m[a.Type]; !ok {
			m[a.Type] = a.Value
		}
	}
	return m
}

// ShortMap returns the attributes keyed by short code.
func (dn DistinguishedName) ShortMap() map[string]string {
	m := make(map[string]string, len(dn.attrs))
	for _, a := range dn.attrs {
		k := ShortName(a.Type)
		if _, ok := m[k]; !ok {
			m[k] = a.Value
		}
	}
	return m
}

// String renders the name in the one-line slash form, e.g.
// "/C=ES/CN=Wez Furlong/emailAddress=wez@example.com".
func (dn DistinguishedName) String() string {
	var b strings.Builder
	for _, a := range dn.attrs {
		fmt.Fprintf(&b, "/%s=%s", ShortName(a.Type), a.Value)
	}
	return b.String()
}

// MarshalJSON encodes the name as an object keyed by long attribute names.
func (dn DistinguishedName) MarshalJSON() ([]byte, error) { return json.Marshal(dn.Map()) }

// UnmarshalJSON decodes an object of attribute names to values.
func (dn *DistinguishedName) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*dn = NewDistinguishedName(fields)
	return nil
}

// MarshalYAML encodes the name as a mapping keyed by long attribute names.
func (dn DistinguishedName) MarshalYAML() (any, error) { return dn.Map(), nil }

// ToPKIX converts the name for use in certificate and request templates.
func (dn DistinguishedName) ToPKIX() pkix.Name {
	var name pkix.Name
	for _, a := range dn.attrs {
		switch a.Type {
		case "countryName":
			name.Country = append(name.Country, a.Value)
		case "stateOrProvinceName":
			name.Province = append(name.Province, a.Value)
		case "localityName":
			name.Locality = append(name.Locality, a.Value)
		case "organizationName":
			name.Organization = append(name.Organization, a.Value)
		case "organizationalUnitName":
			name.OrganizationalUnit = append(name.OrganizationalUnit, a.Value)
		case "commonName":
			name.CommonName = a.Value
		default:
			t, ok := lookupType(a.Type)
			if !ok {
				continue
			}
			name.ExtraNames = append(name.ExtraNames, pkix.AttributeTypeAndValue{Type: t.oid, Value: a.Value})
		}
	}
	return name
}

// FromPKIX converts a parsed certificate name, preserving attribute order.
func FromPKIX(name pkix.Name) DistinguishedName {
	var dn DistinguishedName
	for _, atv := range name.Names {
		value, ok := atv.Value.(string)
		if !ok {
			value = fmt.Sprint(atv.Value)
		}
		typ := atv.Type.String()
		if t, ok := lookupOID(atv.Type); ok {
			typ = t.long
		}
		dn.attrs = append(dn.attrs, Attribute{Type: typ, Value: value})
	}
	return dn
}
