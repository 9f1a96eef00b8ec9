package ast

import (
	"maps"
	"slices"
	"strconv"
)

// Constructors validate their arguments and allocate the node in the tree.
// A broken invariant is reported as an errors.KindAssertion error and no
// slot is allocated.

func (t *Tree) NewProgram(body []Ref) (Ref, error) {
	v := t.validate(TypeProgram)
	v.each("body", body, nil)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Program{Body: slices.Clone(body)}), nil
}

func (t *Tree) NewModule(id *string, fields []Ref, metadata Ref) (Ref, error) {
	v := t.validate(TypeModule)
	v.each("fields", fields, nil)
	v.maybe("metadata", metadata, []Type{TypeModuleMetadata})
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Module{ID: id, Fields: slices.Clone(fields), Metadata: metadata}), nil
}

func (t *Tree) NewModuleMetadata(sections, functionNames, localNames []Ref, moduleName Ref) (Ref, error) {
	v := t.validate(TypeModuleMetadata)
	v.each("sections", sections, []Type{TypeSectionMetadata})
	v.each("functionNames", functionNames, []Type{TypeFunctionNameMetadata})
	v.each("localNames", localNames, []Type{TypeLocalNameMetadata})
	v.maybe("moduleName", moduleName, []Type{TypeModuleNameMetadata})
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&ModuleMetadata{
		Sections:      slices.Clone(sections),
		FunctionNames: optional(functionNames),
		LocalNames:    optional(localNames),
		ModuleName:    moduleName,
	}), nil
}

func (t *Tree) NewSectionMetadata(section SectionName, startOffset uint32, size, vectorOfSize Ref) (Ref, error) {
	v := t.validate(TypeSectionMetadata)
	if _, ok := SectionID(section); !ok {
		v.fail("section", "unknown section %q", section)
	}
	v.required("size", size, []Type{TypeNumberLiteral})
	v.required("vectorOfSize", vectorOfSize, []Type{TypeNumberLiteral})
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&SectionMetadata{
		Section:      section,
		StartOffset:  startOffset,
		Size:         size,
		VectorOfSize: vectorOfSize,
	}), nil
}

func (t *Tree) NewFunctionNameMetadata(value string, index uint32) (Ref, error) {
	return t.add(&FunctionNameMetadata{Value: value, Index: index}), nil
}

func (t *Tree) NewModuleNameMetadata(value string) (Ref, error) {
	return t.add(&ModuleNameMetadata{Value: value}), nil
}

func (t *Tree) NewLocalNameMetadata(value string, localIndex, functionIndex uint32) (Ref, error) {
	return t.add(&LocalNameMetadata{Value: value, LocalIndex: localIndex, FunctionIndex: functionIndex}), nil
}

func (t *Tree) NewBinaryModule(id *string, blob []string) (Ref, error) {
	return t.add(&BinaryModule{ID: id, Blob: slices.Clone(blob)}), nil
}

func (t *Tree) NewQuoteModule(id *string, str []string) (Ref, error) {
	return t.add(&QuoteModule{ID: id, String: slices.Clone(str)}), nil
}

// NewFunc builds a function. signature is either a Signature or an index
// into the type section.
func (t *Tree) NewFunc(name, signature Ref, body []Ref) (Ref, error) {
	v := t.validate(TypeFunc)
	v.maybe("name", name, indexKinds)
	v.required("signature", signature, signatureKinds)
	v.each("body", body, instructionKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Func{Name: name, Signature: signature, Body: slices.Clone(body)}), nil
}

func (t *Tree) NewSignature(params []FuncParam, results []Valtype) (Ref, error) {
	v := t.validate(TypeSignature)
	for i, p := range params {
		v.valtype("params["+strconv.Itoa(i)+"]", p.Valtype)
	}
	for i, r := range results {
		v.valtype("results["+strconv.Itoa(i)+"]", r)
	}
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Signature{Params: slices.Clone(params), Results: slices.Clone(results)}), nil
}

// NewInstruction builds a generic instruction such as "local.get".
func (t *Tree) NewInstruction(id string, args []Ref, namedArgs map[string]Ref) (Ref, error) {
	return t.NewObjectInstruction(id, "", args, namedArgs)
}

// NewObjectInstruction builds an instruction qualified by a value type, as in
// "i32.add". An empty object yields a generic instruction.
func (t *Tree) NewObjectInstruction(id string, object Valtype, args []Ref, namedArgs map[string]Ref) (Ref, error) {
	v := t.validate(TypeInstr)
	v.nonEmpty("id", id)
	if object != "" {
		v.valtype("object", object)
	}
	v.each("args", args, expressionKinds)
	for name, r := range namedArgs {
		v.required("namedArgs."+name, r, nil)
	}
	if v.err != nil {
		return NilRef, v.err
	}

	n := &Instr{ID: id, Object: object, Args: slices.Clone(args)}
	if len(namedArgs) > 0 {
		n.NamedArgs = maps.Clone(namedArgs)
	}
	return t.add(n), nil
}

func (t *Tree) NewBlockInstruction(label Ref, instr []Ref, result *Valtype) (Ref, error) {
	v := t.validate(TypeBlockInstruction)
	v.required("label", label, []Type{TypeIdentifier})
	v.each("instr", instr, instructionKinds)
	if result != nil {
		v.valtype("result", *result)
	}
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&BlockInstruction{Label: label, Instr: slices.Clone(instr), Result: result}), nil
}

func (t *Tree) NewLoopInstruction(label Ref, resultType *Valtype, instr []Ref) (Ref, error) {
	v := t.validate(TypeLoopInstruction)
	v.maybe("label", label, []Type{TypeIdentifier})
	v.each("instr", instr, instructionKinds)
	if resultType != nil {
		v.valtype("resulttype", *resultType)
	}
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&LoopInstruction{Label: label, ResultType: resultType, Instr: slices.Clone(instr)}), nil
}

func (t *Tree) NewIfInstruction(testLabel Ref, test []Ref, result *Valtype, consequent, alternate []Ref) (Ref, error) {
	v := t.validate(TypeIfInstruction)
	v.required("testLabel", testLabel, []Type{TypeIdentifier})
	v.each("test", test, instructionKinds)
	v.each("consequent", consequent, instructionKinds)
	v.each("alternate", alternate, instructionKinds)
	if result != nil {
		v.valtype("result", *result)
	}
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&IfInstruction{
		TestLabel:  testLabel,
		Test:       slices.Clone(test),
		Result:     result,
		Consequent: slices.Clone(consequent),
		Alternate:  slices.Clone(alternate),
	}), nil
}

func (t *Tree) NewCallInstruction(index Ref, instrArgs []Ref) (Ref, error) {
	v := t.validate(TypeCallInstruction)
	v.required("index", index, indexKinds)
	v.each("instrArgs", instrArgs, expressionKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&CallInstruction{Index: index, InstrArgs: optional(instrArgs)}), nil
}

func (t *Tree) NewCallIndirectInstruction(signature Ref, intrs []Ref) (Ref, error) {
	v := t.validate(TypeCallIndirectInstruction)
	v.required("signature", signature, signatureKinds)
	v.each("intrs", intrs, expressionKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&CallIndirectInstruction{Signature: signature, Intrs: optional(intrs)}), nil
}

func (t *Tree) NewTypeInstruction(id, funcType Ref) (Ref, error) {
	v := t.validate(TypeTypeInstruction)
	v.maybe("id", id, indexKinds)
	v.required("functype", funcType, []Type{TypeSignature})
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&TypeInstruction{ID: id, FuncType: funcType}), nil
}

// NewModuleExport builds an export together with its descriptor node.
func (t *Tree) NewModuleExport(name string, exportType ExportDescrType, id Ref) (Ref, error) {
	v := t.validate(TypeModuleExport)
	v.oneOf("descr.exportType", string(exportType),
		string(ExportFunc), string(ExportTable), string(ExportMemory), string(ExportGlobal))
	v.required("descr.id", id, indexKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	descr := t.add(&ModuleExportDescr{ExportType: exportType, ID: id})
	return t.add(&ModuleExport{Name: name, Descr: descr}), nil
}

func (t *Tree) NewModuleImport(module, name string, descr Ref) (Ref, error) {
	v := t.validate(TypeModuleImport)
	v.required("descr", descr, importDescrKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&ModuleImport{Module: module, Name: name, Descr: descr}), nil
}

func (t *Tree) NewFuncImportDescr(id, signature Ref) (Ref, error) {
	v := t.validate(TypeFuncImportDescr)
	v.required("id", id, []Type{TypeIdentifier})
	v.required("signature", signature, []Type{TypeSignature})
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&FuncImportDescr{ID: id, Signature: signature}), nil
}

func (t *Tree) NewTable(elementType string, limits, name Ref, elements []Ref) (Ref, error) {
	v := t.validate(TypeTable)
	v.oneOf("elementType", elementType, "anyfunc")
	v.required("limits", limits, []Type{TypeLimit})
	v.maybe("name", name, []Type{TypeIdentifier})
	v.each("elements", elements, indexKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Table{ElementType: elementType, Limits: limits, Name: name, Elements: optional(elements)}), nil
}

func (t *Tree) NewMemory(limits, id Ref) (Ref, error) {
	v := t.validate(TypeMemory)
	v.required("limits", limits, []Type{TypeLimit})
	v.maybe("id", id, indexKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Memory{Limits: limits, ID: id}), nil
}

func (t *Tree) NewLimit(minimum uint32, maximum *uint32) (Ref, error) {
	if maximum != nil && *maximum < minimum {
		return NilRef, t.validate(TypeLimit).failed("max", "max %d is below min %d", *maximum, minimum)
	}
	return t.add(&Limit{Min: minimum, Max: maximum}), nil
}

func (t *Tree) NewData(memoryIndex, offset, init Ref) (Ref, error) {
	v := t.validate(TypeData)
	v.required("memoryIndex", memoryIndex, []Type{TypeNumberLiteral})
	v.required("offset", offset, instructionKinds)
	v.required("init", init, []Type{TypeBytes})
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Data{MemoryIndex: memoryIndex, Offset: offset, Init: init}), nil
}

func (t *Tree) NewBytes(values []byte) (Ref, error) {
	return t.add(&Bytes{Values: slices.Clone(values)}), nil
}

func (t *Tree) NewGlobal(globalType Ref, init []Ref, name Ref) (Ref, error) {
	v := t.validate(TypeGlobal)
	v.required("globalType", globalType, []Type{TypeGlobalType})
	v.each("init", init, instructionKinds)
	v.maybe("name", name, []Type{TypeIdentifier})
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Global{GlobalType: globalType, Init: slices.Clone(init), Name: name}), nil
}

func (t *Tree) NewGlobalType(valtype Valtype, mutability Mutability) (Ref, error) {
	v := t.validate(TypeGlobalType)
	v.valtype("valtype", valtype)
	v.oneOf("mutability", string(mutability), string(Const), string(Var))
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&GlobalType{Valtype: valtype, Mutability: mutability}), nil
}

func (t *Tree) NewNumberLiteral(value int64, raw string) (Ref, error) {
	return t.add(&NumberLiteral{Value: value, Raw: raw}), nil
}

func (t *Tree) NewLongNumberLiteral(value int64, raw string) (Ref, error) {
	return t.add(&LongNumberLiteral{Value: value, Raw: raw}), nil
}

func (t *Tree) NewFloatLiteral(value float64, nan, inf bool, raw string) (Ref, error) {
	if nan && inf {
		return NilRef, t.validate(TypeFloatLiteral).failed("nan", "a literal can not be both nan and inf")
	}
	return t.add(&FloatLiteral{Value: value, NaN: nan, Inf: inf, Raw: raw}), nil
}

func (t *Tree) NewStringLiteral(value string) (Ref, error) {
	return t.add(&StringLiteral{Value: value}), nil
}

func (t *Tree) NewIdentifier(value string) (Ref, error) {
	return t.add(&Identifier{Value: value}), nil
}

func (t *Tree) NewValtypeLiteral(name Valtype) (Ref, error) {
	v := t.validate(TypeValtypeLiteral)
	v.valtype("name", name)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&ValtypeLiteral{Name: name}), nil
}

func (t *Tree) NewLeadingComment(value string) (Ref, error) {
	return t.add(&LeadingComment{Value: value}), nil
}

func (t *Tree) NewBlockComment(value string) (Ref, error) {
	return t.add(&BlockComment{Value: value}), nil
}

func (t *Tree) NewStart(index Ref) (Ref, error) {
	v := t.validate(TypeStart)
	v.required("index", index, indexKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&Start{Index: index}), nil
}

// NewElem builds an element segment. A nil table defaults to table 0.
func (t *Tree) NewElem(table Ref, offset, funcs []Ref) (Ref, error) {
	v := t.validate(TypeElem)
	v.maybe("table", table, indexKinds)
	v.each("offset", offset, instructionKinds)
	v.each("funcs", funcs, indexKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	if table.IsNil() {
		table = t.IndexLiteral(0)
	}
	return t.add(&Elem{Table: table, Offset: slices.Clone(offset), Funcs: slices.Clone(funcs)}), nil
}

func (t *Tree) NewIndexInFuncSection(index Ref) (Ref, error) {
	v := t.validate(TypeIndexInFuncSection)
	v.required("index", index, indexKinds)
	if v.err != nil {
		return NilRef, v.err
	}
	return t.add(&IndexInFuncSection{Index: index}), nil
}

// IndexLiteral allocates a u32 index.
func (t *Tree) IndexLiteral(index uint32) Ref {
	return t.add(&NumberLiteral{Value: int64(index), Raw: strconv.FormatUint(uint64(index), 10)})
}

// IsAnonymous reports whether id is a generated name with no spelling in the
// source.
func IsAnonymous(id *Identifier) bool {
	return id.Raw != nil && *id.Raw == ""
}

// UniqueNameGenerator returns a function that yields prefix_0, prefix_1, ...
// with a separate counter per prefix.
func UniqueNameGenerator() func(prefix string) string {
	counters := map[string]int{}
	return func(prefix string) string {
		n := counters[prefix]
		counters[prefix] = n + 1
		return prefix + "_" + strconv.Itoa(n)
	}
}
