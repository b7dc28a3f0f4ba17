// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dev

import (
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"net/http"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/dto"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/server/httperr"
	"github.com/wudsh1/playworks-sub001/server/netsvr"
	"github.com/wudsh1/playworks-sub001/server/svrcfg"
	"github.com/wudsh1/playworks-sub001/spec"
)

const maxDevGames = 100000

// Register 註冊 Dev Panel 的 routes。
//
// Routes：
//   - GET  /dev       ：Dev Panel HTML（內嵌 JS）。
//   - GET  /dev/meta  ：關卡清單。
//   - POST /dev/play  ：機器人試玩一局，回傳每個回合與可重播的 token。
//   - POST /dev/sim   ：批次模擬，只回統計。
func Register(svr netsvr.NetRouter, cfg *svrcfg.SvrCfg) {
	svr.Get("/dev", devPage)
	svr.Get("/favicon.svg", favicon)
	svr.Get("/dev/meta", devMeta(cfg))
	svr.Post("/dev/play", devPlay(cfg))
	svr.Post("/dev/sim", devSim(cfg))
}

// devPageHTML 是內嵌的 Dev Panel UI。
// start_b64u 非空時 seed 會被忽略，以快照重現同一局。
const devPageHTML = `<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8" />
  <link rel="icon" type="image/svg+xml" href="/favicon.svg" />
  <title>PlayWorks Dev</title>
  <style>
    body { font-family: -apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif; background:#0f172a; color:#e2e8f0; margin:0; }
    .wrap { max-width: 980px; margin: 24px auto; padding: 16px 20px; background:#111827; border:1px solid #1f2937; border-radius:12px; }
    h1 { margin: 0 0 16px; font-size: 22px; }
    .grid { display:grid; grid-template-columns: repeat(auto-fit, minmax(180px,1fr)); gap:12px; margin-bottom:12px; }
    label { display:flex; flex-direction:column; gap:6px; font-size: 13px; color:#cbd5e1; }
    input, select { background:#0b1224; color:#e2e8f0; border:1px solid #1f2738; border-radius:8px; padding:10px 12px; font-size:14px; }
    button { cursor:pointer; border:none; border-radius:10px; padding:10px 14px; font-weight:600; }
    #btn-play { background:#38bdf8; color:#0b1224; }
    #btn-sim { background:#22c55e; color:#0b1224; }
    pre { background:#0b1224; border:1px solid #1f2738; border-radius:8px; padding:12px; overflow:auto; max-height:520px; font-size:12px; }
    .board { font-family: ui-monospace,Menlo,monospace; white-space:pre; line-height:1.1; }
  </style>
</head>
<body>
<div class="wrap">
  <h1>PlayWorks Dev</h1>
  <div class="grid">
    <label>Level<select id="level"></select></label>
    <label>Seed<input id="seed" placeholder="auto" /></label>
    <label>Moves / Games<input id="count" value="20" /></label>
    <label>start_b64u<input id="snap" placeholder="optional" /></label>
  </div>
  <div>
    <button id="btn-play">Play</button>
    <button id="btn-sim">Sim</button>
    <span id="info"></span>
  </div>
  <h3>Board</h3>
  <pre id="board" class="board"></pre>
  <h3>Result</h3>
  <pre id="out"></pre>
</div>
<script>
const $ = (id) => document.getElementById(id);
async function loadMeta() {
  const res = await fetch('/dev/meta');
  const list = await res.json();
  $('level').innerHTML = list.map(l => '<option value="' + l.lid + '">' + l.lid + ' ' + l.name + '</option>').join('');
}
function payload() {
  const seed = $('seed').value.trim();
  const body = { level: Number($('level').value) };
  if (seed !== '') body.seed = Number(seed);
  return body;
}
async function post(url, body) {
  $('info').textContent = 'running...';
  const res = await fetch(url, { method:'POST', headers:{'Content-Type':'application/json'}, body: JSON.stringify(body) });
  const data = await res.json();
  $('info').textContent = res.ok ? '' : (data.error || res.status);
  return data;
}
$('btn-play').onclick = async () => {
  const body = payload();
  body.moves = Math.min(Number($('count').value) || 20, 500);
  const snap = $('snap').value.trim();
  if (snap !== '') body.start_b64u = snap;
  const data = await post('/dev/play', body);
  $('board').textContent = data.board || '';
  $('out').textContent = JSON.stringify(data, null, 2);
};
$('btn-sim').onclick = async () => {
  const body = payload();
  body.games = Math.min(Number($('count').value) || 1000, 100000);
  const data = await post('/dev/sim', body);
  $('board').textContent = '';
  $('out').textContent = JSON.stringify(data, null, 2);
};
loadMeta();
</script>
</body>
</html>`

const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16"><rect x="1" y="10" width="9" height="5" fill="#38bdf8"/><rect x="6" y="4" width="4" height="5" fill="#ef4444"/><rect x="11" y="10" width="4" height="5" fill="#facc15"/></svg>`

func devPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(devPageHTML))
}

func favicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(faviconSVG))
}

// devMeta 回傳 Catalog summary（JSON）。
func devMeta(cfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lab, ok := getLab(cfg)
		if !ok {
			httperr.Errs(w, errs.NewFatal("lab is required"))
			return
		}
		sum, err := lab.Summary()
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		httperr.JSON(w, sum)
	}
}

// devPlay 執行可重現的機器人試玩。start_b64u 優先於 seed。
func devPlay(cfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := dto.DecodeDevPlayRequest(r)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		lab, ok := getLab(cfg)
		if !ok {
			httperr.Errs(w, errs.NewFatal("lab is required"))
			return
		}
		seed, err := resolveSeed(req.Seed)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		player, err := lab.NewDevPlayer(req.Level, seed)
		if err != nil {
			httperr.Errs(w, errs.Warnf("level %d not playable: %v", req.Level, err))
			return
		}
		var report playworks.DevPlayReport
		if req.StartCoreSnapB64U != "" {
			report, err = player.RestorePlay(r.Context(), req.StartCoreSnapB64U, req.Moves)
		} else {
			report, err = player.Play(r.Context(), req.Moves)
		}
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		httperr.JSON(w, report)
	}
}

// devSim 單線批次模擬，不回逐局結果。
func devSim(cfg *svrcfg.SvrCfg) http.HandlerFunc {
	type devSimRequest struct {
		Level spec.LID `json:"level"`
		Games int      `json:"games"`
		Seed  int64    `json:"seed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := &devSimRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
		if req.Games < 1 || req.Games > maxDevGames {
			httperr.Errs(w, errs.Warnf("games must be between 1 and %d", maxDevGames))
			return
		}
		lab, ok := getLab(cfg)
		if !ok {
			httperr.Errs(w, errs.NewFatal("lab is required"))
			return
		}
		seed, err := resolveSeed(req.Seed)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		sim, err := lab.NewSimulatorWithSeed(req.Level, seed)
		if err != nil {
			httperr.Errs(w, errs.Warnf("level %d not playable: %v", req.Level, err))
			return
		}
		st, used, err := sim.Sim(req.Games, false)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		httperr.JSON(w, map[string]any{"seed": seed, "used_ms": used.Milliseconds(), "stats": st})
	}
}

func getLab(cfg *svrcfg.SvrCfg) (*playworks.Lab, bool) {
	if cfg == nil || cfg.Lab == nil {
		return nil, false
	}
	return cfg.Lab, true
}

// resolveSeed 0 表示自動產生。
func resolveSeed(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}
	rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.NewWarn("seed generate failed")
	}
	return rnd.Int64(), nil
}
