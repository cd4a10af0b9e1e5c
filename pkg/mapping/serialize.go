/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/golang/snappy"
)

// CompressedSource is the cached canonical serialization of a mapping:
// order-preserving JSON, snappy block compressed.
type CompressedSource []byte

func compressSource(data []byte) CompressedSource {
	return snappy.Encode(nil, data)
}

// Uncompress returns the canonical JSON bytes.
func (s CompressedSource) Uncompress() ([]byte, error) {
	return snappy.Decode(nil, s)
}

func (s CompressedSource) String() string {
	data, err := s.Uncompress()
	if err != nil {
		return fmt.Sprintf("<corrupt mapping source: %v>", err)
	}
	return string(data)
}

// MarshalJSON encodes the mapping as its canonical order-preserving form:
// one top-level key (the document type) holding the format version, owner
// meta, transform configurations, metadata fields in canonical order and
// the properties tree in declaration order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	body := NewSourceMap()
	body.Put("format_version", int(m.version))
	if m.meta != nil {
		body.Put("_meta", m.meta)
	}
	if len(m.transforms) > 0 {
		cfgs := make([]json.RawMessage, len(m.transforms))
		for i, t := range m.transforms {
			cfg, err := t.MarshalConfig()
			if err != nil {
				return nil, fmt.Errorf("transform #%d config: %w", i, err)
			}
			cfgs[i] = cfg
		}
		body.Put("transform", cfgs)
	}
	for _, k := range m.metaOrdered {
		body.Put(k.FieldName(), encodeMetaField(m.metaFields[k]))
	}
	if props := encodeProperties(m.root); props.Len() > 0 {
		body.Put("properties", props)
	}
	doc := NewSourceMap().Put(m.docType, body)
	return doc.MarshalJSON()
}

func encodeMetaField(mf *MetaFieldDef) *SourceMap {
	body := NewSourceMap().
		Put("type", mf.DataKind().String()).
		Put("active", mf.Active())
	if mf.Mandatory() {
		body.Put("mandatory", true)
	}
	putOptions(body, &mf.FieldDef)
	return body
}

func encodeField(f *FieldDef) *SourceMap {
	body := NewSourceMap().Put("type", f.DataKind().String())
	if f.Required() {
		body.Put("required", true)
	}
	putOptions(body, f)
	return body
}

func putOptions(body *SourceMap, f *FieldDef) {
	names := f.OptionNames()
	if len(names) == 0 {
		return
	}
	opts := NewSourceMap()
	for _, n := range names {
		opts.Put(n, f.Option(n))
	}
	body.Put("options", opts)
}

func encodeObject(o *ObjectDef) *SourceMap {
	body := NewSourceMap().Put("type", o.Kind().String())
	if props := encodeProperties(o); props.Len() > 0 {
		body.Put("properties", props)
	}
	return body
}

func encodeProperties(o *ObjectDef) *SourceMap {
	props := NewSourceMap()
	o.Fields(func(f *FieldDef) {
		props.Put(f.Name(), encodeField(f))
	})
	o.Children(func(ch *ObjectDef) {
		props.Put(ch.Name(), encodeObject(ch))
	})
	return props
}

// MappingFromSource reconstructs a mapping from its canonical JSON form via
// the builder path, so the result obeys the same construction invariants as
// a programmatically built mapping. registry may be nil to rebuild a
// partial mapping; scripts is required only if the source carries script
// transforms.
func MappingFromSource(data []byte, registry IMapperRegistry, scripts IScriptService) (m *Mapping, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("malformed mapping source: %v", r)
		}
	}()

	doc := &SourceMap{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if doc.Len() != 1 {
		return nil, fmt.Errorf("mapping source must hold exactly one document type, got %d keys", doc.Len())
	}
	docType := doc.Keys()[0]
	body, ok := doc.AsMap(docType)
	if !ok {
		return nil, fmt.Errorf("mapping body of «%s» must be an object", docType)
	}

	b := NewBuilder(docType, registry)
	var decodeErr error
	body.Enum(func(name string, value any) {
		if decodeErr != nil {
			return
		}
		decodeErr = decodeMappingKey(b, scripts, name, value)
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return b.Build()
}

func decodeMappingKey(b *Builder, scripts IScriptService, name string, value any) error {
	switch name {
	case "format_version":
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("format_version must be a number")
		}
		b.Version(FormatVersion(v))
	case "_meta":
		sm, ok := value.(*SourceMap)
		if !ok {
			return fmt.Errorf("_meta must be an object")
		}
		b.Meta(toAnyMap(sm))
	case "transform":
		cfgs, ok := value.([]any)
		if !ok {
			return fmt.Errorf("transform must be an array")
		}
		for i, cfg := range cfgs {
			sm, ok := cfg.(*SourceMap)
			if !ok {
				return fmt.Errorf("transform #%d must be an object", i)
			}
			t, err := decodeTransform(sm, scripts)
			if err != nil {
				return fmt.Errorf("transform #%d: %w", i, err)
			}
			b.Transform(t)
		}
	case "properties":
		props, ok := value.(*SourceMap)
		if !ok {
			return fmt.Errorf("properties must be an object")
		}
		return decodeProperties(b.Root(), props)
	default:
		if !strings.HasPrefix(name, "_") {
			return fmt.Errorf("unexpected mapping key «%s»", name)
		}
		kind := MetaFieldKindByName(name)
		if kind == MetaFieldKind_null {
			return fmt.Errorf("metadata field «%s»: %w", name, ErrUnknownMetaFieldKind)
		}
		sm, ok := value.(*SourceMap)
		if !ok {
			return fmt.Errorf("metadata field «%s» must be an object", name)
		}
		mf, err := decodeMetaField(kind, sm)
		if err != nil {
			return err
		}
		b.PutMetaField(mf)
	}
	return nil
}

func decodeMetaField(kind MetaFieldKind, body *SourceMap) (*MetaFieldDef, error) {
	typeName, _ := body.AsString("type")
	dataKind := DataKindByName(typeName)
	if dataKind == DataKind_null {
		return nil, fmt.Errorf("metadata field «%s» type «%s»: %w", kind.FieldName(), typeName, ErrInvalidDataKind)
	}
	active, _ := body.Value("active")
	activeBool, _ := active.(bool)
	options, err := decodeOptions(body)
	if err != nil {
		return nil, err
	}
	return NewMetaFieldDefWithOptions(kind, dataKind, activeBool, options), nil
}

func decodeProperties(parent *ObjectDef, props *SourceMap) error {
	var err error
	props.Enum(func(name string, value any) {
		if err != nil {
			return
		}
		body, ok := value.(*SourceMap)
		if !ok {
			err = fmt.Errorf("property «%s» must be an object", name)
			return
		}
		typeName, _ := body.AsString("type")
		switch typeName {
		case "object", "nested":
			kind := ObjectKind_Object
			if typeName == "nested" {
				kind = ObjectKind_Nested
			}
			child := parent.AddObject(name, kind)
			if childProps, ok := body.AsMap("properties"); ok {
				err = decodeProperties(child, childProps)
			}
		default:
			dataKind := DataKindByName(typeName)
			if dataKind == DataKind_null {
				err = fmt.Errorf("field «%s» type «%s»: %w", name, typeName, ErrInvalidDataKind)
				return
			}
			required, _ := body.Value("required")
			requiredBool, _ := required.(bool)
			var options map[string]string
			options, err = decodeOptions(body)
			if err != nil {
				return
			}
			parent.AddFieldWithOptions(name, dataKind, requiredBool, options)
		}
	})
	return err
}

func decodeOptions(body *SourceMap) (map[string]string, error) {
	opts, ok := body.AsMap("options")
	if !ok {
		return nil, nil
	}
	res := make(map[string]string, opts.Len())
	var err error
	opts.Enum(func(name string, value any) {
		s, ok := value.(string)
		if !ok {
			err = fmt.Errorf("option «%s» must be a string", name)
			return
		}
		res[name] = s
	})
	return res, err
}

func decodeTransform(cfg *SourceMap, scripts IScriptService) (SourceTransform, error) {
	if set, ok := cfg.AsMap("set"); ok {
		field, ok := set.AsString("field")
		if !ok {
			return nil, fmt.Errorf("set transform missed [field]")
		}
		value, _ := set.Value("value")
		return NewSetTransform(field, value), nil
	}
	if name, ok := cfg.AsString("script"); ok {
		if scripts == nil {
			return nil, fmt.Errorf("script transform «%s» needs a script service", name)
		}
		script := Script{Name: name}
		script.Lang, _ = cfg.AsString("lang")
		if params, ok := cfg.AsMap("params"); ok {
			script.Params = toAnyMap(params)
		}
		return NewScriptTransform(scripts, script), nil
	}
	return nil, fmt.Errorf("unknown transform configuration")
}

// toAnyMap converts a SourceMap tree to plain maps, dropping key order.
func toAnyMap(sm *SourceMap) map[string]any {
	res := make(map[string]any, sm.Len())
	sm.Enum(func(name string, value any) {
		if nested, ok := value.(*SourceMap); ok {
			res[name] = toAnyMap(nested)
			return
		}
		res[name] = value
	})
	return res
}
