// Package prelude holds the bundled Nix runtime every generated module
// imports from (nixgen.PreludePath), implementing the handful of things
// plain Nix expressions can't do natively: Gleam's cons-list encoding,
// integer parsing/division-by-zero semantics, bit-array construction, and
// the structured error records Todo/Panic/assertion failures throw.
//
// Grounded on compiler-core/src/nix/ (the original Glistix Nix backend's
// own bundled prelude, referenced but not reproduced verbatim by
// _INDEX.md's retrieval — its shape here is rebuilt from spec.md §4.7's
// polyfill list and expression.rs's call sites for each helper) and the
// teacher's own plain-data-in/plain-data-out helper style (no classes, one
// function per concern, attrs as the only composite value).
package prelude

// Source is the complete prelude module text, bundled as a Go string
// constant the way the teacher bundles small fixed runtime support files
// (there is no natural third-party dependency for "ship a constant
// string" — see DESIGN.md).
const Source = `# Generated runtime support. Do not edit by hand.
let
  lib_reverse = list: builtins.foldl' (acc: x: [ x ] ++ acc) [ ] list;

  listPrepend = elements: tail:
    builtins.foldl' (acc: head: { __gleamTag = "NonEmpty"; _0 = head; _1 = acc; })
      tail
      (lib_reverse elements);

  toList = elements: listPrepend elements { __gleamTag = "Empty"; };

  sizedInt = value: size: littleEndian:
    if builtins.mod size 8 != 0 then
      builtins.throw "bit arrays only support byte-aligned segments in this backend"
    else
      let
        bytes = size / 8;
        toBytes = n: v:
          if n == 0 then [ ]
          else [ (builtins.mod v 256) ] ++ toBytes (n - 1) (builtins.div v 256);
        be = toBytes bytes value;
      in
      if littleEndian then lib_reverse be else be;

  stringBits = s:
    builtins.concatMap (c: sizedInt (builtins.fromJSON "0") 8 false)
      (builtins.genList (i: builtins.substring i 1 s) (builtins.stringLength s));

  codepointBits = codepoint: sizedInt codepoint 32 false;

  toBitArray = segments: builtins.concatLists segments;

  hexDigits = "0123456789abcdefABCDEF";

  parseNumber = text:
    let
      stripped =
        if builtins.substring 0 2 text == "0x" || builtins.substring 0 2 text == "0X" then
          { base = 16; digits = builtins.substring 2 (builtins.stringLength text - 2) text; }
        else if builtins.substring 0 2 text == "0o" || builtins.substring 0 2 text == "0O" then
          { base = 8; digits = builtins.substring 2 (builtins.stringLength text - 2) text; }
        else if builtins.substring 0 2 text == "0b" || builtins.substring 0 2 text == "0B" then
          { base = 2; digits = builtins.substring 2 (builtins.stringLength text - 2) text; }
        else
          { base = 10; digits = text; };
      digitValue = c:
        let idx = builtins.genList (i: i) (builtins.stringLength hexDigits);
        in builtins.foldl' (acc: i: if builtins.substring i 1 hexDigits == c then builtins.mod i 16 else acc) 0 idx;
      chars = builtins.genList (i: builtins.substring i 1 stripped.digits) (builtins.stringLength stripped.digits);
    in
    builtins.foldl' (acc: c: acc * stripped.base + digitValue c) 0 chars;

  parseEscape = code:
    if code == "\\f" then ""
    else
      let
        hex = builtins.substring 3 (builtins.stringLength code - 4) code;
      in
      "\${builtins.toString (parseNumber (\"0x\" + hex))}";

  divideInt = a: b: if b == 0 then 0 else a / b;

  divideFloat = a: b: if b == 0.0 then 0.0 else a / b;

  remainderInt = a: b: if b == 0 then 0 else builtins.mod a b;

  makeError = kind: module: line: function:
    { __gleamTag = "GlistixError";
      _0 = kind;
      _1 = module;
      _2 = line;
      _3 = function;
    };

  seqAll = vars: body: builtins.foldl' (b: v: builtins.seq v b) body vars;
in
{
  inherit toList listPrepend toBitArray sizedInt stringBits codepointBits;
  inherit parseNumber parseEscape divideInt divideFloat remainderInt;
  inherit makeError seqAll;
}
`
