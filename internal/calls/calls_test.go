package calls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const pythonFile = `import os

def load(path):
    if check(path):
        data = parse(path)
    print(data)
    normalize(data)
    return data

def parse(raw):
    return raw

def unrelated():
    helper()
`

const cFile = `#include <string.h>

static void fill(char *dst) {
    memset(dst, 0, 16);
}

void copy_buf(char *dst, const char *src, int n) {
    char *tmp = malloc(n);
    if (tmp != NULL) {
        memcpy(tmp, src, n);
        memcpy(dst, tmp, n);
        free(tmp);
    }
}
`

func TestFindCalls_PythonIndentation(t *testing.T) {
	t.Run("body is bounded by indentation", func(t *testing.T) {
		callees := FindCalls(pythonFile, ".py", "load")
		assert.ElementsMatch(t, []string{"check", "parse", "normalize"}, callees)
		assert.NotContains(t, callees, "helper", "calls from later functions must not leak in")
	})

	t.Run("builtins and keywords are filtered", func(t *testing.T) {
		callees := FindCalls(pythonFile, ".py", "load")
		assert.NotContains(t, callees, "print")
		assert.NotContains(t, callees, "if")
	})

	t.Run("blank lines do not terminate the body", func(t *testing.T) {
		src := "def gap():\n    first()\n\n    second()\n\ndef other():\n    third()\n"
		callees := FindCalls(src, ".py", "gap")
		assert.ElementsMatch(t, []string{"first", "second"}, callees)
	})
}

func TestFindCalls_BraceMatching(t *testing.T) {
	t.Run("body ends when brace depth returns to zero", func(t *testing.T) {
		callees := FindCalls(cFile, ".c", "copy_buf")
		assert.ElementsMatch(t, []string{"malloc", "memcpy", "free"}, callees)
		assert.NotContains(t, callees, "memset")
	})

	t.Run("deduplicates repeated callees", func(t *testing.T) {
		callees := FindCalls(cFile, ".c", "copy_buf")
		count := 0
		for _, c := range callees {
			if c == "memcpy" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("control keywords are filtered", func(t *testing.T) {
		callees := FindCalls(cFile, ".c", "copy_buf")
		assert.NotContains(t, callees, "if")
		assert.NotContains(t, callees, "NULL")
	})
}

func TestFindCalls_NoMatchingDefinition(t *testing.T) {
	assert.Empty(t, FindCalls(pythonFile, ".py", "missing"))
	assert.Empty(t, FindCalls(cFile, ".c", "missing"))
}

func TestFindCalls_GenericWholeFile(t *testing.T) {
	src := "setup()\nteardown()\nif (x) { ignored }\n"
	callees := FindCalls(src, ".cfg", "anything")
	assert.Contains(t, callees, "setup")
	assert.Contains(t, callees, "teardown")
	assert.NotContains(t, callees, "if")
}

func TestFindCalls_GoBody(t *testing.T) {
	src := `package main

func handle(w io.Writer) error {
	payload := build()
	encode(w, payload)
	return nil
}

func build() int { return other() }
`
	callees := FindCalls(src, ".go", "handle")
	assert.ElementsMatch(t, []string{"build", "encode"}, callees)
}

func TestCountCallSites(t *testing.T) {
	// Unfiltered and non-deduplicated, unlike FindCalls.
	assert.Equal(t, 3, CountCallSites("f(); f(); if (x) {}"))
}
