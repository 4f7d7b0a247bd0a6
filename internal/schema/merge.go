package schema

// Merge combines two observations of the same position into one node.
// Inputs are not modified. Nil on either side returns the other.
func Merge(a, b Node) Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	switch na := a.(type) {
	case *PrimitiveNode:
		if nb, ok := b.(*PrimitiveNode); ok {
			if na.P == nb.P {
				return na
			}
			if na.P.Numeric() && nb.P.Numeric() {
				return NewPrimitive(Number)
			}
		}
	case *ObjectNode:
		if nb, ok := b.(*ObjectNode); ok {
			return mergeObjects(na, nb)
		}
	case *ArrayNode:
		if nb, ok := b.(*ArrayNode); ok {
			return mergeArrays(na, nb)
		}
	}

	return NewUnion(a, b)
}

func mergeObjects(a, b *ObjectNode) *ObjectNode {
	out := NewObject()
	out.Samples = a.Samples + b.Samples

	for _, name := range a.order {
		fa := a.fields[name]
		merged := &FieldInfo{Schema: fa.Schema, PresentCount: fa.PresentCount, TotalSamples: out.Samples}
		if fb, ok := b.fields[name]; ok {
			merged.Schema = Merge(fa.Schema, fb.Schema)
			merged.PresentCount += fb.PresentCount
		}
		out.Put(name, merged)
	}
	for _, name := range b.order {
		if _, seen := a.fields[name]; seen {
			continue
		}
		fb := b.fields[name]
		out.Put(name, &FieldInfo{Schema: fb.Schema, PresentCount: fb.PresentCount, TotalSamples: out.Samples})
	}
	return out
}

func mergeArrays(a, b *ArrayNode) *ArrayNode {
	var acc Node
	for _, e := range a.Elements {
		acc = Merge(acc, e)
	}
	for _, e := range b.Elements {
		acc = Merge(acc, e)
	}
	out := &ArrayNode{Empty: a.Empty || b.Empty}
	out.Elements = flatten(acc)
	return out
}

// flatten returns the variants of a union, or n alone.
func flatten(n Node) []Node {
	switch v := n.(type) {
	case nil:
		return nil
	case *UnionNode:
		return append([]Node(nil), v.Variants...)
	}
	return []Node{n}
}
