package main

import "github.com/switchkit/hipcidl/ast"

// dumpFile renders a parsed IpcFile into a plain, JSON/YAML-friendly
// tree (maps, slices, strings) so --dump-ast can be marshaled with
// either encoding/json or gopkg.in/yaml.v2 without the ast package
// needing to carry marshal tags or know about either format.
func dumpFile(f *ast.IpcFile) []interface{} {
	items := make([]interface{}, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, dumpItem(it))
	}
	return items
}

func dumpItem(it ast.Item) map[string]interface{} {
	switch v := it.(type) {
	case *ast.TypeAlias:
		return map[string]interface{}{
			"kind": "TypeAlias",
			"name": v.Name.String(),
			"type": dumpNominalType(v.Type),
		}
	case *ast.Struct:
		return map[string]interface{}{
			"kind":    "Struct",
			"name":    v.Name.String(),
			"fields":  dumpFields(v.Fields),
			"markers": dumpMarkers(v.Markers),
		}
	case *ast.Enum:
		return map[string]interface{}{
			"kind": "Enum",
			"name": v.Name.String(),
			"base": v.Base.String(),
			"arms": dumpEnumArms(v.Arms),
		}
	case *ast.Bitflags:
		return map[string]interface{}{
			"kind": "Bitflags",
			"name": v.Name.String(),
			"base": v.Base.String(),
			"arms": dumpBitflagsArms(v.Arms),
		}
	case *ast.Interface:
		return map[string]interface{}{
			"kind":     "Interface",
			"name":     v.Name.String(),
			"smNames":  v.SMNames,
			"isDomain": v.IsDomain,
			"commands": dumpCommands(v.Commands),
		}
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

func dumpFields(fields []ast.StructField) []interface{} {
	out := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		out = append(out, map[string]interface{}{
			"name": f.Name,
			"type": dumpNominalType(f.Type),
		})
	}
	return out
}

func dumpMarkers(markers []ast.StructMarker) []interface{} {
	out := make([]interface{}, 0, len(markers))
	for _, m := range markers {
		out = append(out, markerName(m))
	}
	return out
}

func markerName(m ast.StructMarker) string {
	switch m.Kind {
	case ast.LargeData:
		return "LargeData"
	case ast.PrefersTransferModeMarker:
		return "PrefersTransferMode(" + m.Mode.String() + ")"
	default:
		return "Unknown"
	}
}

func dumpEnumArms(arms []ast.EnumArm) []interface{} {
	out := make([]interface{}, 0, len(arms))
	for _, a := range arms {
		out = append(out, map[string]interface{}{"name": a.Name, "value": a.Value})
	}
	return out
}

func dumpBitflagsArms(arms []ast.BitflagsArm) []interface{} {
	out := make([]interface{}, 0, len(arms))
	for _, a := range arms {
		out = append(out, map[string]interface{}{"name": a.Name, "value": a.Value})
	}
	return out
}

func dumpCommands(cmds []ast.Command) []interface{} {
	out := make([]interface{}, 0, len(cmds))
	for _, c := range cmds {
		args := make([]interface{}, 0, len(c.Args))
		for _, a := range c.Args {
			args = append(args, map[string]interface{}{
				"name":  a.Name,
				"value": dumpValue(a.Value),
			})
		}
		out = append(out, map[string]interface{}{
			"id":   c.ID,
			"name": c.Name,
			"args": args,
		})
	}
	return out
}

func dumpNominalType(t ast.NominalType) map[string]interface{} {
	switch t.Kind {
	case ast.NominalInt:
		return map[string]interface{}{"kind": "Int", "int": t.Int.String()}
	case ast.NominalBool:
		return map[string]interface{}{"kind": "Bool"}
	case ast.NominalF32:
		return map[string]interface{}{"kind": "F32"}
	case ast.NominalBytes:
		return map[string]interface{}{"kind": "Bytes", "size": t.BytesSize, "alignment": t.BytesAlignment}
	case ast.NominalUnknown:
		out := map[string]interface{}{"kind": "Unknown"}
		if t.UnknownSize != nil {
			out["size"] = *t.UnknownSize
		}
		return out
	default:
		return map[string]interface{}{"kind": "TypeName", "name": t.TypeName.String()}
	}
}

func valueKindName(k ast.ValueKind) string {
	switch k {
	case ast.In:
		return "In"
	case ast.Out:
		return "Out"
	case ast.InBuffer:
		return "InBuffer"
	case ast.OutBuffer:
		return "OutBuffer"
	case ast.InArray:
		return "InArray"
	case ast.OutArray:
		return "OutArray"
	case ast.InHandle:
		return "InHandle"
	case ast.OutHandle:
		return "OutHandle"
	case ast.InObject:
		return "InObject"
	case ast.OutObject:
		return "OutObject"
	case ast.ClientProcessId:
		return "ClientProcessId"
	default:
		return "Unknown"
	}
}

func dumpValue(v ast.Value) map[string]interface{} {
	out := map[string]interface{}{"kind": valueKindName(v.Kind)}
	if v.Elem != nil {
		out["elem"] = dumpNominalType(*v.Elem)
	}
	if v.ModeSet {
		out["mode"] = v.Mode.String()
	}
	if v.Attrs != ast.NoAttrs {
		switch v.Attrs {
		case ast.AllowNonSecure:
			out["attrs"] = "AllowNonSecure"
		case ast.AllowNonDevice:
			out["attrs"] = "AllowNonDevice"
		}
	}
	if v.Kind == ast.InHandle || v.Kind == ast.OutHandle {
		out["handle"] = v.Handle.String()
	}
	if v.Kind == ast.InObject || v.Kind == ast.OutObject {
		if v.Iface != nil {
			out["iface"] = v.Iface.String()
		} else {
			out["iface"] = "sf::IUnknown"
		}
	}
	return out
}
