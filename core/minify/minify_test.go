package minify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlminiapps/runner/core/minify"
)

func TestHTML_Comments(t *testing.T) {
	t.Parallel()

	html := `
	<div>
		<!-- This is a comment -->
		<p>Hello</p>
		<!-- Another comment -->
	</div>
	`
	out := minify.HTML(html)

	assert.NotContains(t, out, "<!--")
	assert.NotContains(t, out, "-->")
	assert.Contains(t, out, "<p>Hello</p>")
}

func TestHTML_ScriptComments(t *testing.T) {
	t.Parallel()

	html := `
	<script>
		var x = 1; // This is a variable
		var url = "http://example.com"; // URL check
		var protocolRelative = "//cdn.example.com";
		var strWithSlashes = "path//to//file";
		var escaped = "foo \" // bar"; // check escaped quote
	</script>
	<script src="//ajax.googleapis.com/ajax/libs/jquery/3.5.1/jquery.min.js"></script>
	`
	out := minify.HTML(html)

	assert.Contains(t, out, "var x = 1;")
	assert.NotContains(t, out, "// This is a variable")
	assert.NotContains(t, out, "// check escaped quote")
	// Protocol URLs must survive comment stripping.
	assert.Contains(t, out, "http://example.com")
	assert.Contains(t, out, `"//cdn.example.com"`)
	assert.Contains(t, out, `"path//to//file"`)
	// Tag attributes are not script source.
	assert.Contains(t, out, `src="//ajax.googleapis.com`)
	// Escaped quotes do not terminate the string early.
	assert.Contains(t, out, `"foo \" // bar"`)
}

func TestHTML_ScriptBlockComments(t *testing.T) {
	t.Parallel()

	html := `
	<script>
		/* setup
		   block */
		var ready = true; /* inline */ var done = false;
	</script>
	`
	out := minify.HTML(html)

	assert.NotContains(t, out, "/*")
	assert.NotContains(t, out, "*/")
	assert.Contains(t, out, "var ready = true;")
	assert.Contains(t, out, "var done = false;")
}

func TestHTML_StyleComments(t *testing.T) {
	t.Parallel()

	html := `
	<style>
		body {
			background: #fff; /* White background */
			color: #000;
		}
		/* Block comment
		   spanning lines */
		.class { width: 100%; }
	</style>
	`
	out := minify.HTML(html)

	assert.NotContains(t, out, "/* White background */")
	assert.NotContains(t, out, "/* Block comment")
	assert.Contains(t, out, "background: #fff;")
	assert.Contains(t, out, ".class { width: 100%; }")
}

func TestHTML_NonScriptContentUntouched(t *testing.T) {
	t.Parallel()

	html := `
	<p>Visit http://example.com</p>
	<a href="//example.com">Link</a>
	`
	out := minify.HTML(html)

	assert.Contains(t, out, "Visit http://example.com")
	assert.Contains(t, out, `href="//example.com"`)
}

func TestHTML_WhitespaceCollapse(t *testing.T) {
	t.Parallel()

	html := `
	<div>
		<p>  Hello   World  </p>
	</div>
	`
	assert.Equal(t, "<div> <p> Hello World </p> </div>", minify.HTML(html))
}

func TestHTML_Edges(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", minify.HTML(""))
	})

	t.Run("unterminated html comment", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "<p>ok</p>", minify.HTML("<p>ok</p> <!-- dangling"))
	})

	t.Run("unterminated script", func(t *testing.T) {
		t.Parallel()
		out := minify.HTML("<script>var a = 1; // trailing")
		assert.Contains(t, out, "var a = 1;")
		assert.NotContains(t, out, "// trailing")
	})

	t.Run("case-insensitive tags", func(t *testing.T) {
		t.Parallel()
		out := minify.HTML("<SCRIPT>var b = 2; // gone</SCRIPT>")
		assert.Contains(t, out, "var b = 2;")
		assert.NotContains(t, out, "// gone")
	})
}
