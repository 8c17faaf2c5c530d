package object

import (
	"encoding/json"
	"fmt"
)

// envelope tags each serialized object with its variant so Decode can rebuild
// the concrete type. The same format nests inside groups.
type envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// groupRecord is the wire form of a Group; children are nested envelopes.
type groupRecord struct {
	Attrs
	Children []envelope `json:"children"`
}

// Encode serializes an object sequence into the snapshot format. The output
// is self-describing and order-preserving.
func Encode(objs []Object) ([]byte, error) {
	envs := make([]envelope, 0, len(objs))
	for _, o := range objs {
		env, err := encodeOne(o)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return json.Marshal(envs)
}

func encodeOne(o Object) (envelope, error) {
	var (
		data []byte
		err  error
	)
	if g, ok := o.(*Group); ok {
		rec := groupRecord{Attrs: g.Attrs}
		for _, c := range g.Children {
			env, cerr := encodeOne(c)
			if cerr != nil {
				return envelope{}, cerr
			}
			rec.Children = append(rec.Children, env)
		}
		data, err = json.Marshal(rec)
	} else {
		data, err = json.Marshal(o)
	}
	if err != nil {
		return envelope{}, fmt.Errorf("encode %s: %w", o.Kind(), err)
	}
	return envelope{Type: o.Kind(), Data: data}, nil
}

// Decode rebuilds an object sequence from a snapshot. Every call produces
// fresh values, so restored scenes never alias live ones.
func Decode(data []byte) ([]Object, error) {
	var envs []envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	objs := make([]Object, 0, len(envs))
	for _, env := range envs {
		o, err := decodeOne(env)
		if err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, nil
}

func decodeOne(env envelope) (Object, error) {
	var (
		o   Object
		err error
	)
	switch env.Type {
	case KindStroke:
		v := &Stroke{}
		err = json.Unmarshal(env.Data, v)
		o = v
	case KindLine:
		v := &Line{}
		err = json.Unmarshal(env.Data, v)
		o = v
	case KindArrow:
		v := &Arrow{}
		err = json.Unmarshal(env.Data, v)
		o = v
	case KindRect:
		v := &Rect{}
		err = json.Unmarshal(env.Data, v)
		o = v
	case KindEllipse:
		v := &Ellipse{}
		err = json.Unmarshal(env.Data, v)
		o = v
	case KindText:
		v := &Text{}
		err = json.Unmarshal(env.Data, v)
		o = v
	case KindGroup:
		var rec groupRecord
		if err = json.Unmarshal(env.Data, &rec); err != nil {
			break
		}
		g := &Group{Attrs: rec.Attrs}
		for _, child := range rec.Children {
			c, cerr := decodeOne(child)
			if cerr != nil {
				return nil, cerr
			}
			g.Children = append(g.Children, c)
		}
		o = g
	default:
		return nil, fmt.Errorf("decode: unknown object type %q", env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return o, nil
}
