package route

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given client URLs", t, func() {
		cases := []struct {
			url   string
			kind  Kind
			param string
			path  string
		}{
			{"/", Home, "", "/"},
			{"", Home, "", "/"},
			{"/?tab=recent", Home, "", "/"},
			{"/index.html", Home, "", "/index.html"},
			{"/player/Alice", Player, "Alice", "/player/Alice"},
			{"/player/Alice/", Player, "Alice", "/player/Alice/"},
			{"/player/Alice%20Smith", Player, "Alice Smith", "/player/Alice%20Smith"},
			{"/player/a%2Fb", Player, "a/b", "/player/a%2Fb"},
			{"/player/Alice?ref=search#top", Player, "Alice", "/player/Alice"},
			{"/player/", NotFound, "", "/player/"},
			{"/player/Alice/extra", NotFound, "", "/player/Alice/extra"},
			{"/player/%zz", NotFound, "", "/player/%zz"},
			{"/match/42", Match, "42", "/match/42"},
			{"/match/", NotFound, "", "/match/"},
			{"/player.html?name=Bob", Player, "Bob", "/player.html"},
			{"/player.html", NotFound, "", "/player.html"},
			{"/match.html?id=m-7", Match, "m-7", "/match.html"},
			{"/players", NotFound, "", "/players"},
			{"/matches/1", NotFound, "", "/matches/1"},
			{"/about", NotFound, "", "/about"},
		}

		for _, tc := range cases {
			Convey("When resolving "+tc.url, func() {
				r := Resolve(tc.url)

				Convey("Then exactly one route kind is selected", func() {
					So(r.Kind, ShouldEqual, tc.kind)
					So(r.Param, ShouldEqual, tc.param)
					So(r.Path, ShouldEqual, tc.path)
				})
			})
		}
	})

	Convey("Given a URL with query parameters", t, func() {
		r := Resolve("/match/9?highlight=Alice")

		Convey("Then the query is stripped from the path but kept", func() {
			So(r.Path, ShouldEqual, "/match/9")
			So(r.Query.Get("highlight"), ShouldEqual, "Alice")
		})
	})
}

func TestLinks(t *testing.T) {
	Convey("Given names that need escaping", t, func() {
		So(PlayerPath("Alice"), ShouldEqual, "/player/Alice")
		So(PlayerPath("Alice Smith"), ShouldEqual, "/player/Alice%20Smith")
		So(PlayerPath("a/b"), ShouldEqual, "/player/a%2Fb")
		So(MatchPath("m 1"), ShouldEqual, "/match/m%201")

		Convey("Then links round-trip through Resolve", func() {
			for _, name := range []string{"Alice", "Zoë", "a/b", "50% off", "x?y#z"} {
				r := Resolve(PlayerPath(name))
				So(r.Kind, ShouldEqual, Player)
				So(r.Param, ShouldEqual, name)
			}
		})
	})

	Convey("Given resolved routes", t, func() {
		So(Resolve("/player.html?name=Bob").Link(), ShouldEqual, "/player/Bob")
		So(Resolve("/index.html").Link(), ShouldEqual, "/")
		So(Resolve("/nope").Link(), ShouldEqual, "/nope")
	})

	Convey("Given kinds", t, func() {
		So(Home.String(), ShouldEqual, "home")
		So(Player.String(), ShouldEqual, "player")
		So(Match.String(), ShouldEqual, "match")
		So(NotFound.String(), ShouldEqual, "not_found")
	})
}
