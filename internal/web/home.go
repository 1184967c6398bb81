package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(anonName string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="ko">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>아니스비</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">아니스비</span>
        <h1>오늘 점심, 어디로 갈까요?</h1>
        <p>익명으로 맛집을 추천하고 투표로 오늘의 승자를 정합니다.</p>
        <nav class="nav">
          <a class="primary" href="/lunch">점심 라운드로 가기</a>
        </nav>
      </header>

      <section class="panel" id="profilePanel">
        <div>
          <h2>익명 이름</h2>
          <p>추천과 투표에 쓰일 이름을 정해 주세요. 언제든 바꿀 수 있습니다.</p>
        </div>
        <form id="nameForm" class="join-form">
          <input name="anon_name" placeholder="익명 이름" autocomplete="off" maxlength="16" value="`)
		_, _ = io.WriteString(w, escape(anonName))
		_, _ = io.WriteString(w, `" required/>
          <button type="submit" class="secondary">저장</button>
        </form>
        <div id="nameResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2>자유 게시판</h2>
          <p>오늘의 한마디를 남겨 보세요.</p>
        </div>
        <form id="postForm" class="join-form">
          <input name="body" placeholder="무슨 생각을 하고 있나요?" autocomplete="off" maxlength="500" required/>
          <button type="submit" class="secondary">올리기</button>
        </form>
        <div id="postResult" class="result"></div>
        <ul id="feed" class="feed"></ul>
      </section>
    </main>

    <script>
      const nameForm = document.getElementById("nameForm");
      const nameResult = document.getElementById("nameResult");
      const postForm = document.getElementById("postForm");
      const postResult = document.getElementById("postResult");
      const feed = document.getElementById("feed");

      nameForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        nameResult.textContent = "저장 중...";
        const res = await fetch("/api/profile", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ anon_name: nameForm.elements.anon_name.value.trim() })
        });
        const data = await res.json();
        if (!res.ok) {
          nameResult.textContent = data.error || "이름을 저장하지 못했습니다.";
          return;
        }
        nameResult.textContent = data.anon_name + " 님, 환영합니다.";
      });

      postForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        postResult.textContent = "";
        const res = await fetch("/api/posts", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ body: postForm.elements.body.value.trim() })
        });
        const data = await res.json();
        if (!res.ok) {
          postResult.textContent = data.error || "글을 올리지 못했습니다.";
          return;
        }
        postForm.reset();
        loadFeed();
      });

      async function loadFeed() {
        const res = await fetch("/api/posts");
        if (!res.ok) return;
        const data = await res.json();
        feed.replaceChildren();
        for (const post of data.posts) {
          const item = document.createElement("li");
          const who = document.createElement("strong");
          who.textContent = post.anon_name || "익명";
          const body = document.createElement("span");
          body.textContent = " " + post.body;
          item.append(who, body);
          feed.append(item);
        }
      }

      loadFeed();
    </script>
  </body>
</html>
`)
		return nil
	})
}
