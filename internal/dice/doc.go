// Package dice implements the dice-notation engine.
//
// A roll flows through one synchronous pipeline:
//
//	text → tokens → DiceParts → Dice → DiceGroup      (Engine.Parse)
//	DiceGroup → DiceGroupRoll                          (Engine.Roll)
//	DiceGroupRoll → graded, manipulated, rendered text (System hooks, Renderer)
//
// Game systems plug into the pipeline through a System capability record:
// a token pattern overlay, token handlers, a target resolver, a grading
// function and a manipulation hook. The tokenizer and assembler never change
// when a system is added.
//
// # Immutability
//
// Recipes (DicePart, Dice, DiceGroup) and roll records (DicePartRoll,
// DiceRoll, DiceGroupRoll) are values. Manipulation returns new rolls whose
// part lists extend the originals with labeled synthetic parts; rolled faces
// are never rewritten. Grades are computed on demand and never stored.
//
// # Concurrency
//
// An Engine holds no mutable state after construction and may be shared.
// Rolls within one DiceGroup draw from the random source strictly left to
// right.
package dice
