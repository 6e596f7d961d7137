package ir

// Annotation is the only persisted "metadata" surface (spec §6): a named
// decoration carrying an optional value or value list, attached to a
// declaration. Recognized names: EntryPoint, EntryPointArgs, Constants,
// DescriptorSet(n), DescriptorBinding(n), Internal.
type AnnotationPayload struct {
	Name   string
	Value  *Node // optional single value, nil if absent
	Values Nodes // optional value list, empty if absent
}

func (p AnnotationPayload) hashKey() string {
	return p.Name + "|" + idOf(p.Value) + "|" + nodesKey(p.Values.elems)
}

// NewAnnotation constructs a named annotation with an optional single
// value.
func NewAnnotation(a *Arena, name string, value *Node) *Node {
	return a.construct(TagAnnotation, AnnotationPayload{Name: a.InternString(name), Value: value})
}

// NewAnnotationList constructs a named annotation carrying a value list
// (e.g. DescriptorSet/DescriptorBinding-style numeric payloads, or
// EntryPointArgs's FnAddr back-reference, spec §9).
func NewAnnotationList(a *Arena, name string, values Nodes) *Node {
	return a.construct(TagAnnotation, AnnotationPayload{Name: a.InternString(name), Values: values})
}

// IsAnnotation reports whether n is an Annotation node (ir.h's is_annotation).
func IsAnnotation(n *Node) bool { return n != nil && n.Tag == TagAnnotation }

// GetAnnotationName returns an annotation's name.
func GetAnnotationName(n *Node) string { return n.Payload.(AnnotationPayload).Name }

// LookupAnnotation finds the first annotation named name attached to decl,
// or nil (ir.h's lookup_annotation).
func LookupAnnotation(decl *Node, name string) *Node {
	for _, ann := range declAnnotations(decl).Slice() {
		if GetAnnotationName(ann) == name {
			return ann
		}
	}
	return nil
}

// ExtractAnnotationValue returns an annotation's single value, or nil
// (ir.h's extract_annotation_value).
func ExtractAnnotationValue(ann *Node) *Node { return ann.Payload.(AnnotationPayload).Value }

// ExtractAnnotationValues returns an annotation's value list (ir.h's
// extract_annotation_values).
func ExtractAnnotationValues(ann *Node) Nodes { return ann.Payload.(AnnotationPayload).Values }

// ExtractAnnotationStringPayload returns the string literal attached to an
// annotation, if its single value is a StringLiteral (ir.h's
// extract_annotation_string_payload).
func ExtractAnnotationStringPayload(a *Arena, ann *Node) string {
	v := ExtractAnnotationValue(ann)
	if v == nil {
		return ""
	}
	return ExtractStringLiteral(a, v)
}

// LookupAnnotationWithStringPayload reports whether decl carries an
// annotation named annotationName whose string payload equals
// expectedPayload.
func LookupAnnotationWithStringPayload(a *Arena, decl *Node, annotationName, expectedPayload string) bool {
	ann := LookupAnnotation(decl, annotationName)
	if ann == nil {
		return false
	}
	return ExtractAnnotationStringPayload(a, ann) == expectedPayload
}

// DeclAnnotations returns the annotation list attached to a declaration
// (Function/Constant/GlobalVariable/NominalType), or an empty Nodes for
// anything else — exported for internal/verify's dangling-annotation audit.
func DeclAnnotations(decl *Node) Nodes { return declAnnotations(decl) }

func declAnnotations(decl *Node) Nodes {
	switch p := decl.Payload.(type) {
	case *FunctionPayload:
		return p.Annotations
	case *ConstantPayload:
		return p.Annotations
	case *GlobalVariablePayload:
		return p.Annotations
	case *NominalTypePayload:
		return p.Annotations
	default:
		return Nodes{}
	}
}

const (
	AnnotationEntryPoint      = "EntryPoint"
	AnnotationEntryPointArgs  = "EntryPointArgs"
	AnnotationConstants       = "Constants"
	AnnotationDescriptorSet   = "DescriptorSet"
	AnnotationDescriptorBind  = "DescriptorBinding"
	AnnotationInternal        = "Internal"
)
