package node

import "github.com/autarkie-go/autarkie/pkg/visitor"

// U8Factory returns the ElementFactory for u8, the element type of the
// byte vectors the u8-array byte mutator and chunk-store tests exercise.
func U8Factory() ElementFactory {
	return ElementFactory{
		TypeID: U8ID,
		Generate: func(v *visitor.Visitor, remaining, current int) (Node, bool) {
			return U8Node{}.Generate(v, remaining, current)
		},
		Deserialize: func(b []byte) (Node, int, bool) { return U8Node{}.Deserialize(b) },
	}
}

// U32Factory returns the ElementFactory for u32.
func U32Factory() ElementFactory {
	return ElementFactory{
		TypeID: U32ID,
		Generate: func(v *visitor.Visitor, remaining, current int) (Node, bool) {
			return U32Node{}.Generate(v, remaining, current)
		},
		Deserialize: func(b []byte) (Node, int, bool) { return U32Node{}.Deserialize(b) },
	}
}

// StringFactory returns the ElementFactory for the string primitive.
func StringFactory() ElementFactory {
	return ElementFactory{
		TypeID: StringID,
		Generate: func(v *visitor.Visitor, remaining, current int) (Node, bool) {
			return StringNode{}.Generate(v, remaining, current)
		},
		Deserialize: func(b []byte) (Node, int, bool) { return StringNode{}.Deserialize(b) },
	}
}
