package fuzztests

import (
	"testing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"fn main() -> u64 { 0 }\n",
	"/// A point.\nstruct Point<T> { x: T, y: u64 }\n",
	"enum Color { Red, Value: u64 }\n",
	"const MAX: u64 = 10;\nstorage { counter: u64 = 0 }\n",
	"abi Counter { fn increment(amount: u64) -> u64; }\nimpl Counter for Contract { fn increment(amount: u64) -> u64 { storage.counter + amount } }\n",
	"trait Shape { fn area(self) -> u64; }\nimpl Shape for Point { fn area(self) -> u64 { 1 } }\n",
	"impl<T> Point<T> { fn new(x: T, y: u64) -> Self { Point { x: x, y: y } } }\n",
	"fn f() { let mut a = 1; a = a + 1; if a > 1 { return; } else { a = 0; } }\n",
	"fn f() -> (u64, bool) { let t: (u64, bool) = (1, true); let arr: [u8; 2] = [1, 2]; t }\n",
	"#[test]\nfn test_max() { let _a = MAX; }\n",
	"fn f() { let x: bool = 10; }\n",
	"fn f( {\n",
	"struct S { a: u64 \nfn g() {}\n",
	"fn f() { { { { } } } }\n",
	"\"unterminated\n/* open comment",
}

func addSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

// clamp copies input, truncated to maxFuzzInput.
func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
