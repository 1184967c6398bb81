package web

import "html"

func escape(value string) string {
	return html.EscapeString(value)
}
