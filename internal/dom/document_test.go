package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html><head><title>Old</title></head>
<body>
  <nav><ul id="menu"><li><a id="link" href="#about">About</a></li></ul></nav>
  <section id="about"><div class="container"><button id="inner">x</button></div></section>
  <form id="f">
    <input type="hidden" name="access_key" value="k">
    <input type="text" name="name" value="Ada">
    <input type="email" name="email">
    <input type="checkbox" name="cc" value="yes" checked>
    <textarea name="message">Hello</textarea>
    <button type="submit">Send</button>
  </form>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(testPage)
	require.NoError(t, err)
	return doc
}

func TestDocument_TitleRoundTrip(t *testing.T) {
	doc := mustParse(t)
	assert.Equal(t, "Old", doc.Title())

	doc.SetTitle("Ada Lovelace")
	assert.Equal(t, "Ada Lovelace", doc.Title())
}

func TestDocument_SetTitle_CreatesTitleElement(t *testing.T) {
	doc, err := ParseString(`<html><head></head><body></body></html>`)
	require.NoError(t, err)

	doc.SetTitle("New")
	assert.Equal(t, "New", doc.Title())
}

func TestDocument_DispatchBubblesToAncestorsAndDocument(t *testing.T) {
	doc := mustParse(t)
	var order []string

	link, ok := doc.Query("#link")
	require.True(t, ok)
	doc.On(link, EventClick, func(*Event) { order = append(order, "link") })
	doc.On(doc.Find("nav"), EventClick, func(*Event) { order = append(order, "nav") })
	doc.OnDocument(EventClick, func(*Event) { order = append(order, "document") })

	notPrevented := doc.Dispatch(&Event{Type: EventClick, Target: link.Nodes[0]})

	assert.True(t, notPrevented)
	assert.Equal(t, []string{"link", "nav", "document"}, order)
}

func TestDocument_DispatchPreventDefaultAndStop(t *testing.T) {
	doc := mustParse(t)
	link, _ := doc.Query("#link")
	reachedDocument := false

	doc.On(link, EventClick, func(ev *Event) {
		ev.PreventDefault()
		ev.StopPropagation()
	})
	doc.OnDocument(EventClick, func(*Event) { reachedDocument = true })

	assert.False(t, doc.Dispatch(&Event{Type: EventClick, Target: link.Nodes[0]}))
	assert.False(t, reachedDocument)
}

func TestDocument_SetInnerHTMLDropsListenersOnReplacedNodes(t *testing.T) {
	doc := mustParse(t)
	inner, _ := doc.Query("#inner")
	node := inner.Nodes[0]
	doc.On(inner, EventClick, func(*Event) {})
	require.Equal(t, 1, doc.Listeners(node, EventClick))

	container, _ := doc.Query("#about .container")
	doc.On(container, EventClick, func(*Event) {})
	doc.SetInnerHTML(container, `<p>fresh</p>`)

	assert.Equal(t, 0, doc.Listeners(node, EventClick))
	assert.Equal(t, 1, doc.Listeners(container.Nodes[0], EventClick), "listeners on the mount itself survive")
	assert.Equal(t, "fresh", doc.Find("#about .container p").Text())
	assert.Equal(t, 0, doc.Find("#inner").Length())
}

func TestDocument_TextInputFocused(t *testing.T) {
	doc := mustParse(t)
	assert.False(t, doc.TextInputFocused())

	doc.Focus(doc.Find(`input[name="name"]`))
	assert.True(t, doc.TextInputFocused())

	doc.Focus(doc.Find(`textarea`))
	assert.True(t, doc.TextInputFocused())

	doc.Focus(doc.Find(`input[type="checkbox"]`))
	assert.False(t, doc.TextInputFocused())

	doc.Focus(doc.Find("#link"))
	assert.False(t, doc.TextInputFocused())

	doc.Blur()
	assert.Nil(t, doc.ActiveElement())
}

func TestDocument_HTMLIncludesDoctype(t *testing.T) {
	doc := mustParse(t)
	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<section id="about">`)
}

func TestFormFields_DocumentOrder(t *testing.T) {
	doc := mustParse(t)
	fields := FormFields(doc.Find("#f"))

	assert.Equal(t, []Field{
		{Name: "access_key", Value: "k"},
		{Name: "name", Value: "Ada"},
		{Name: "email", Value: ""},
		{Name: "cc", Value: "yes"},
		{Name: "message", Value: "Hello"},
	}, fields)
}

func TestResetForm_KeepsHiddenInputs(t *testing.T) {
	doc := mustParse(t)
	form := doc.Find("#f")
	SetValue(form.Find(`input[name="email"]`), "ada@example.com")

	ResetForm(form)

	assert.Equal(t, []Field{
		{Name: "access_key", Value: "k"},
		{Name: "name", Value: ""},
		{Name: "email", Value: ""},
		{Name: "message", Value: ""},
	}, FormFields(form))
}

func TestWindow_OffsetWidthFallbacks(t *testing.T) {
	doc, err := ParseString(`<div id="a" data-width="420"></div><div id="b"></div>`)
	require.NoError(t, err)
	w := NewWindow(1200, "light")

	a, _ := doc.Query("#a")
	b, _ := doc.Query("#b")
	assert.Equal(t, 420.0, w.OffsetWidth(a.Nodes[0]))
	assert.Equal(t, 1200.0, w.OffsetWidth(b.Nodes[0]))
	assert.False(t, w.PrefersDark())
}
