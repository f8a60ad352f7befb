package gridscope

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// Direction tags for single-adjacent-reference ("linear shift") formulas.
const (
	shiftUp    = "UP"
	shiftDown  = "DOWN"
	shiftLeft  = "LEFT"
	shiftRight = "RIGHT"
)

// Signature returns the position-invariant fingerprint of a formula at a
// 1-based home position. Every reference token is replaced with an
// offset-encoded form, so two formulas compare equal under Signature
// exactly when one is the other translated to a new position. The result
// is case-folded and whitespace-normalized.
//
// When the formula's only reference is a single relative cell at Manhattan
// distance 1 from home, the signature carries an #UP/#DOWN/#LEFT/#RIGHT
// suffix for fast adjacency classification.
func Signature(formula string, row, col int) string {
	sig, _ := buildSignature(formula, row, col)
	return sig
}

// buildSignature renders the efp token stream into the canonical signature
// and, for linear-shift formulas, returns the offset of the single adjacent
// reference.
func buildSignature(formula string, row, col int) (string, *Offset) {
	ps := efp.ExcelParser()
	tokens := ps.Parse(strings.TrimPrefix(strings.TrimSpace(formula), "="))
	if tokens == nil {
		return "", nil
	}
	var (
		sb         strings.Builder
		refCount   int
		rangeCount int
		single     CellReference
	)
	for _, token := range tokens {
		switch token.TType {
		case efp.TokenTypeOperand:
			switch token.TSubType {
			case efp.TokenSubTypeRange:
				enc, refs := encodeRangeToken(token.TValue, row, col)
				if enc == "" {
					// Malformed reference: keep it verbatim so the
					// signature still distinguishes the formula.
					sb.WriteString(strings.ToUpper(token.TValue))
					continue
				}
				sb.WriteString(enc)
				refCount += len(refs)
				if len(refs) > 1 {
					rangeCount++
				}
				if len(refs) == 1 {
					single = refs[0]
				}
			case efp.TokenSubTypeText:
				sb.WriteString("\"")
				sb.WriteString(strings.ToUpper(token.TValue))
				sb.WriteString("\"")
			default:
				sb.WriteString(strings.ToUpper(strings.TrimSpace(token.TValue)))
			}
		case efp.TokenTypeFunction:
			if token.TSubType == efp.TokenSubTypeStart {
				sb.WriteString(strings.ToUpper(token.TValue))
				sb.WriteString("(")
			} else {
				sb.WriteString(")")
			}
		case efp.TokenTypeSubexpression:
			if token.TSubType == efp.TokenSubTypeStart {
				sb.WriteString("(")
			} else {
				sb.WriteString(")")
			}
		case efp.TokenTypeArgument:
			sb.WriteString(",")
		case efp.TokenTypeOperatorPrefix, efp.TokenTypeOperatorInfix, efp.TokenTypeOperatorPostfix:
			sb.WriteString(strings.TrimSpace(token.TValue))
		case efp.TokenTypeWhitespace, efp.TokenTypeNoop:
			// Whitespace-normalized: dropped.
		default:
			sb.WriteString(strings.ToUpper(strings.TrimSpace(token.TValue)))
		}
	}
	sig := sb.String()
	if sig == "" {
		return "", nil
	}
	if refCount == 1 && rangeCount == 0 {
		if tag, offset := adjacencyTag(single, row, col); tag != "" {
			return sig + "#" + tag, offset
		}
	}
	return sig, nil
}

// adjacencyTag classifies a single reference at Manhattan distance 1 from
// home. Absolute axes and explicit sheet qualifiers never qualify: a pinned
// reference does not shift with a copied formula.
func adjacencyTag(ref CellReference, row, col int) (string, *Offset) {
	if ref.Sheet != "" || ref.RowAbs || ref.ColAbs {
		return "", nil
	}
	dr, dc := ref.Row-row, ref.Col-col
	off := &Offset{Rows: dr, Cols: dc}
	switch {
	case dr == -1 && dc == 0:
		return shiftUp, off
	case dr == 1 && dc == 0:
		return shiftDown, off
	case dr == 0 && dc == -1:
		return shiftLeft, off
	case dr == 0 && dc == 1:
		return shiftRight, off
	}
	return "", nil
}

// encodeRangeToken rewrites one range operand into its offset-encoded form
// relative to the home position and returns the parsed endpoint references
// (one for a single cell, two for a range). Returns "" when the token does
// not parse as a reference.
func encodeRangeToken(value string, row, col int) (string, []CellReference) {
	parts := strings.Split(value, ":")
	if len(parts) > 2 {
		return "", nil
	}
	refs := make([]CellReference, 0, 2)
	encoded := make([]string, 0, 2)
	sheet := ""
	for i, part := range parts {
		ref, ok := parseQualifiedRef(part)
		if !ok {
			return "", nil
		}
		if i == 1 && ref.Sheet == "" {
			ref.Sheet = sheet
		}
		sheet = ref.Sheet
		refs = append(refs, ref)
		encoded = append(encoded, encodeRef(ref, row, col))
	}
	return strings.Join(encoded, ":"), refs
}

// encodeRef renders one reference relative to home: relative axes become
// signed deltas, absolute axes keep their fixed coordinate. An explicit
// sheet qualifier is preserved so cross-sheet references never compare
// equal to local ones.
func encodeRef(ref CellReference, row, col int) string {
	var sb strings.Builder
	if ref.Sheet != "" {
		sb.WriteString(strings.ToUpper(ref.Sheet))
		sb.WriteString("|")
	}
	sb.WriteString("R")
	if ref.RowAbs {
		sb.WriteString(strconv.Itoa(ref.Row))
	} else {
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(ref.Row - row))
		sb.WriteString("]")
	}
	sb.WriteString("C")
	if ref.ColAbs {
		sb.WriteString(strconv.Itoa(ref.Col))
	} else {
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(ref.Col - col))
		sb.WriteString("]")
	}
	return sb.String()
}

// isLinearShift reports whether a signature carries an adjacency tag.
func isLinearShift(signature string) bool {
	switch {
	case strings.HasSuffix(signature, "#"+shiftUp),
		strings.HasSuffix(signature, "#"+shiftDown),
		strings.HasSuffix(signature, "#"+shiftLeft),
		strings.HasSuffix(signature, "#"+shiftRight):
		return true
	}
	return false
}
