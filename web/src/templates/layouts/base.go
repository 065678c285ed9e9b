package layouts

import (
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

// HTMXSource is the htmx build loaded by every page.
const HTMXSource = "https://unpkg.com/htmx.org@2.0.4"

// HTMXConfig makes htmx swap the error slot sent with the 4xx answers the
// form can receive. Other errors keep htmx's default of not swapping.
const HTMXConfig = `{"responseHandling":[` +
	`{"code":"204","swap":false},` +
	`{"code":"[23]..","swap":true},` +
	`{"code":"(400|409|410|429)","swap":true,"error":false},` +
	`{"code":"[45]..","swap":false,"error":true}]}`

// Base wraps page content in the HTML document shell.
func Base(title string, content cmp.Node) cmp.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []cmp.Node{
			g.Meta(g.Name("htmx-config"), g.Content(HTMXConfig)),
			g.Link(g.Rel("stylesheet"), g.Href("/static/login.css")),
			g.Script(g.Src(HTMXSource)),
			g.Script(g.Src("/static/regform.js"), g.Defer()),
		},
		Body: []cmp.Node{content},
	})
}
