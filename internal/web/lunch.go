package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Lunch renders the shell of the lunch round page. The round itself is
// hydrated from /api/lunch/today and kept fresh over /ws/lunch, so the
// page stays correct when the round closes while it is open.
func Lunch(view LunchView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="ko">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>오늘의 점심 · 아니스비</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag"><a href="/">아니스비</a></span>
        <h1>오늘의 점심 라운드</h1>
        <p id="roundMeta">`)
		if view.Date != "" {
			_, _ = io.WriteString(w, escape(view.Date)+" · 마감 "+escape(view.Deadline))
		}
		if view.AnonName != "" {
			_, _ = io.WriteString(w, ` · `+escape(view.AnonName)+` 님`)
		}
		_, _ = io.WriteString(w, `</p>
        <p id="countdown" class="countdown"></p>
      </header>

      <section class="panel" id="submitPanel">
        <div>
          <h2>맛집 추천</h2>
          <p>하루에 한 곳만 추천할 수 있어요.</p>
        </div>
        <form id="recommendForm" class="join-form">
          <input name="restaurant_name" placeholder="식당 이름" autocomplete="off" maxlength="40" required/>
          <input name="location" placeholder="위치 (선택)" autocomplete="off" maxlength="60"/>
          <input name="link_url" placeholder="링크 (선택)" autocomplete="off" maxlength="300"/>
          <input name="one_line_reason" placeholder="한 줄 이유" autocomplete="off" maxlength="70" required/>
          <button type="submit" class="primary">추천하기</button>
        </form>
        <div id="submitResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2 id="boardTitle">오늘의 후보</h2>
        </div>
        <ul id="board" class="board"></ul>
      </section>

      <section class="panel">
        <div>
          <h2>어제의 승자</h2>
        </div>
        <div id="yesterday" class="result"></div>
      </section>
    </main>

    <script>
      const board = document.getElementById("board");
      const boardTitle = document.getElementById("boardTitle");
      const countdown = document.getElementById("countdown");
      const roundMeta = document.getElementById("roundMeta");
      const submitPanel = document.getElementById("submitPanel");
      const recommendForm = document.getElementById("recommendForm");
      const submitResult = document.getElementById("submitResult");
      const yesterday = document.getElementById("yesterday");

      let deadlineAt = null;
      let currentPhase = "`)
		_, _ = io.WriteString(w, escape(view.Phase))
		_, _ = io.WriteString(w, `";

      function voteLabel(category) {
        if (category === "want") return "먹고 싶다";
        if (category === "unsure") return "글쎄";
        return "화들짝";
      }

      function renderRound(round) {
        if (!round.ready) {
          boardTitle.textContent = "라운드 준비 중";
          return;
        }
        currentPhase = round.phase;
        deadlineAt = new Date(round.deadline);
        roundMeta.textContent = round.date;
        submitPanel.hidden = round.phase !== "open";
        boardTitle.textContent = round.phase === "closed" ? "최종 결과" : "오늘의 후보";

        board.replaceChildren();
        for (const rec of round.recommendations) {
          const item = document.createElement("li");
          if (rec.is_winner) item.className = "winner";

          const title = document.createElement("strong");
          title.textContent = rec.restaurant_name;
          if (rec.location) title.textContent += " · " + rec.location;
          const reason = document.createElement("p");
          reason.textContent = rec.one_line_reason + " — " + rec.anon_name;
          item.append(title, reason);

          if (rec.link_url) {
            const link = document.createElement("a");
            link.href = rec.link_url;
            link.textContent = "링크";
            link.rel = "noopener";
            item.append(link);
          }

          const tally = document.createElement("span");
          tally.className = "tally";
          tally.textContent =
            "먹고 싶다 " + rec.tally.want +
            " · 글쎄 " + rec.tally.unsure +
            " · 화들짝 " + rec.tally.wtf +
            " · 점수 " + rec.score;
          item.append(tally);

          if (round.phase === "open") {
            for (const category of ["want", "unsure", "wtf"]) {
              const btn = document.createElement("button");
              btn.textContent = voteLabel(category);
              if (rec.my_vote === category) btn.className = "voted";
              btn.addEventListener("click", () => vote(rec.id, category));
              item.append(btn);
            }
          }
          board.append(item);
        }
      }

      async function vote(id, category) {
        const res = await fetch("/api/lunch/votes", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ recommendation_id: id, category })
        });
        if (!res.ok) {
          const data = await res.json();
          submitResult.textContent = data.error || "투표하지 못했습니다.";
          return;
        }
        const data = await res.json();
        renderRound(data);
      }

      recommendForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        submitResult.textContent = "";
        const fields = recommendForm.elements;
        const res = await fetch("/api/lunch/recommendations", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            restaurant_name: fields.restaurant_name.value.trim(),
            location: fields.location.value.trim(),
            link_url: fields.link_url.value.trim(),
            one_line_reason: fields.one_line_reason.value.trim()
          })
        });
        const data = await res.json();
        if (!res.ok) {
          submitResult.textContent = data.error || "추천하지 못했습니다.";
          return;
        }
        recommendForm.reset();
        loadRound();
      });

      function tickCountdown() {
        if (!deadlineAt || currentPhase !== "open") {
          countdown.textContent = currentPhase === "closed" ? "오늘 라운드가 끝났습니다." : "";
          return;
        }
        const left = Math.max(0, Math.floor((deadlineAt - Date.now()) / 1000));
        const minutes = Math.floor(left / 60);
        const seconds = left % 60;
        countdown.textContent = "마감까지 " + minutes + "분 " + seconds + "초";
        if (left === 0) loadRound();
      }

      async function loadRound() {
        const res = await fetch("/api/lunch/today");
        if (!res.ok) return;
        renderRound(await res.json());
      }

      async function loadYesterday() {
        const res = await fetch("/api/lunch/yesterday");
        if (!res.ok) return;
        const data = await res.json();
        if (!data.winner) {
          yesterday.textContent = "어제는 승자가 없었어요.";
          return;
        }
        yesterday.textContent = data.winner.restaurant_name + " — " + data.winner.anon_name;
      }

      function connect() {
        const proto = location.protocol === "https:" ? "wss" : "ws";
        const socket = new WebSocket(proto + "://" + location.host + "/ws/lunch");
        socket.addEventListener("message", (event) => {
          renderRound(JSON.parse(event.data));
        });
        socket.addEventListener("close", () => {
          setTimeout(connect, 2000);
        });
      }

      setInterval(tickCountdown, 1000);
      loadRound();
      loadYesterday();
      connect();
    </script>
  </body>
</html>
`)
		return nil
	})
}
