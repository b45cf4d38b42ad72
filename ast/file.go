package ast

// Item is the sum of the five top-level declaration kinds an IpcFile
// can contain. It's a marker interface rather than a closed sealed
// type switch because Go has no sum types — callers type-switch on
// *TypeAlias / *Struct / *Enum / *Bitflags / *Interface.
type Item interface {
	isItem()
}

func (*TypeAlias) isItem() {}
func (*Struct) isItem()    {}
func (*Enum) isItem()      {}
func (*Bitflags) isItem()  {}
func (*Interface) isItem() {}

// IpcFile is one parsed IDL file: an ordered list of top-level items.
// Item order is preserved (it's stable for diagnostic ordering and
// mirrors the source) but not semantically meaningful to downstream
// consumers beyond that (spec §3 "Ordering").
type IpcFile struct {
	Items []Item
}
