package web

import (
	"html/template"

	"github.com/harveywai/leadflow/pkg/render"
)

var funcMap = template.FuncMap{
	"loadingModal": render.DetailLoading,
	"errorModal":   render.DetailError,
	"loadingText":  func() string { return render.DetailLoadingText },
	"barWidth": func(percent int) int {
		switch {
		case percent < 0:
			return 0
		case percent > 100:
			return 100
		}
		return percent
	},
}

// templates holds every named template the router renders: "page" for a full
// view and "modal" for the lead detail fragment fetched by the page script.
const templates = `
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <noscript><meta http-equiv="refresh" content="30" /></noscript>
    <title>LeadFlow - {{.Header.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        .status-todo { background: #fef3c7; color: #92400e; }
        .status-in-progress { background: #dbeafe; color: #1e40af; }
        .status-complete { background: #d1fae5; color: #065f46; }
        .priority-urgent { background: #fee2e2; color: #991b1b; }
        .priority-high { background: #ffedd5; color: #9a3412; }
        .priority-normal { background: #e0e7ff; color: #3730a3; }
        .priority-low { background: #f1f5f9; color: #475569; }
    </style>
</head>
<body class="min-h-screen bg-slate-950 text-slate-100">
    <div class="min-h-screen flex">
        <aside class="w-60 border-r border-slate-800 flex flex-col">
            <div class="px-4 py-4 border-b border-slate-800 flex items-center gap-3">
                <div class="h-9 w-9 rounded-xl bg-emerald-500 flex items-center justify-center text-slate-950 font-black">L</div>
                <div>
                    <p class="text-sm font-semibold tracking-tight">LeadFlow</p>
                    <p class="text-[11px] text-slate-400">Lead Management</p>
                </div>
            </div>
            <nav class="flex-1 px-3 py-4 space-y-1 text-sm">
                {{range .Nav}}
                <a href="{{.Path}}" data-view="{{.View}}"{{if .Active}} aria-current="page"{{end}}
                   class="nav-item block px-3 py-2 rounded-lg {{if .Active}}active bg-slate-800 text-slate-50 font-medium{{else}}text-slate-300 hover:bg-slate-800/60{{end}}">{{.Label}}</a>
                {{end}}
            </nav>
            <div class="px-4 py-4 border-t border-slate-800 text-xs">
                <div class="flex items-center gap-2">
                    <span id="status-dot" class="h-2 w-2 rounded-full" style="background-color: {{.Status.Accent}}"></span>
                    <span id="status-text" style="color: {{.Status.Accent}}">{{.Status.Label}}</span>
                </div>
                <p class="mt-2 text-slate-500">Last sync: {{.LastSync}}</p>
                <p class="text-slate-500">Auto-refresh every {{.RefreshSeconds}}s</p>
            </div>
        </aside>

        <main class="flex-1 p-8 space-y-6">
            <header class="flex items-start justify-between">
                <div>
                    <h1 id="page-title" class="text-2xl font-semibold">{{.Header.Title}}</h1>
                    <p id="page-subtitle" class="text-sm text-slate-400">{{.Header.Subtitle}}</p>
                </div>
                <form method="post" action="/refresh">
                    <input type="hidden" name="view" value="{{.View}}" />
                    <button id="refresh-btn" type="submit" class="px-3 py-2 rounded-lg bg-emerald-500 text-slate-950 text-sm font-medium">Refresh</button>
                </form>
            </header>

            {{if eq .View "dashboard"}}
            <section id="dashboard-view" class="space-y-6">
                <div class="grid grid-cols-4 gap-4">
                    {{range .Cards}}
                    <div class="rounded-xl border border-slate-800 p-4">
                        <p class="text-xs text-slate-400">{{.Label}}</p>
                        <p id="{{.Key}}" class="text-2xl font-semibold">{{.Value}}</p>
                    </div>
                    {{end}}
                </div>
                <div class="rounded-xl border border-slate-800">
                    <h2 class="px-4 py-3 text-sm font-semibold border-b border-slate-800">Recent Leads</h2>
                    {{template "leadTable" .Recent}}
                </div>
            </section>
            {{else if eq .View "leads"}}
            <section id="leads-view" class="space-y-4">
                <form id="filters" method="post" action="/filters" class="flex gap-3">
                    <select id="status-filter" name="status" class="bg-slate-900 border border-slate-700 rounded-lg px-3 py-2 text-sm">
                        {{range .StatusOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
                    </select>
                    <select id="priority-filter" name="priority" class="bg-slate-900 border border-slate-700 rounded-lg px-3 py-2 text-sm">
                        {{range .PriorityOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
                    </select>
                    <noscript><button type="submit" class="px-3 py-2 rounded-lg bg-slate-800 text-sm">Apply</button></noscript>
                </form>
                <div class="rounded-xl border border-slate-800">
                    {{template "leadTable" .All}}
                </div>
            </section>
            {{else}}
            <section id="analytics-view" class="space-y-6">
                <div class="grid grid-cols-2 gap-4">
                    <div class="rounded-xl border border-slate-800 p-4 space-y-3">
                        <h2 class="text-sm font-semibold">Leads by Status</h2>
                        {{range .Analytics.ByStatus}}{{template "bar" .}}{{end}}
                    </div>
                    <div class="rounded-xl border border-slate-800 p-4 space-y-3">
                        <h2 class="text-sm font-semibold">Leads by Priority</h2>
                        {{range .Analytics.ByPriority}}{{template "bar" .}}{{end}}
                    </div>
                </div>
                <div class="rounded-xl border border-slate-800">
                    <h2 class="px-4 py-3 text-sm font-semibold border-b border-slate-800">Sync History</h2>
                    <table class="w-full text-sm">
                        <thead class="text-left text-slate-400">
                            <tr><th class="px-4 py-2">#</th><th class="px-4 py-2">When</th><th class="px-4 py-2">Duration</th><th class="px-4 py-2">Leads</th><th class="px-4 py-2">Result</th></tr>
                        </thead>
                        <tbody>
                            {{range .Analytics.Syncs}}
                            <tr class="border-t border-slate-800">
                                <td class="px-4 py-2">{{.Generation}}</td>
                                <td class="px-4 py-2">{{.When}}</td>
                                <td class="px-4 py-2">{{.Duration}}</td>
                                <td class="px-4 py-2">{{.Leads}}</td>
                                <td class="px-4 py-2 {{if .OK}}text-emerald-400{{else}}text-rose-400{{end}}">{{.Result}}</td>
                            </tr>
                            {{else}}
                            <tr><td colspan="5" class="px-4 py-6 text-center text-slate-500">No sync recorded yet.</td></tr>
                            {{end}}
                        </tbody>
                    </table>
                </div>
            </section>
            {{end}}
        </main>
    </div>

    <div id="lead-modal" class="hidden fixed inset-0 bg-black/60 flex items-center justify-center">
        <div class="w-full max-w-xl rounded-xl border border-slate-800 bg-slate-900 p-6">
            <div class="flex justify-end">
                <button id="modal-close" type="button" class="text-slate-400 hover:text-slate-100">&times;</button>
            </div>
            <div id="modal-body"></div>
        </div>
    </div>
    <template id="modal-loading">{{template "modal" loadingModal}}</template>
    <template id="modal-error">{{template "modal" errorModal}}</template>

    <script>
        (function () {
            var modal = document.getElementById("lead-modal");
            var body = document.getElementById("modal-body");
            var loading = document.getElementById("modal-loading");
            var failed = document.getElementById("modal-error");

            // requestSeq identifies the detail request whose answer may
            // fill the modal; closing or reopening the modal bumps it.
            var requestSeq = 0;

            function closeModal() {
                requestSeq++;
                modal.classList.add("hidden");
                body.innerHTML = "";
            }

            function openModal(id) {
                var seq = ++requestSeq;
                body.innerHTML = loading.innerHTML;
                modal.classList.remove("hidden");
                fetch("/leads/" + encodeURIComponent(id) + "/modal")
                    .then(function (resp) { return resp.text(); })
                    .then(function (html) {
                        if (seq !== requestSeq) { return; }
                        body.innerHTML = html;
                    })
                    .catch(function () {
                        if (seq !== requestSeq) { return; }
                        body.innerHTML = failed.innerHTML;
                    });
            }

            // Reload with the latest poll, but never under an open modal.
            function scheduleReload(delay) {
                setTimeout(function () {
                    if (modal.classList.contains("hidden")) {
                        window.location.reload();
                    } else {
                        scheduleReload(5000);
                    }
                }, delay);
            }
            scheduleReload({{.RefreshSeconds}} * 1000);

            document.addEventListener("click", function (event) {
                var trigger = event.target.closest("[data-lead-id]");
                if (trigger) {
                    openModal(trigger.getAttribute("data-lead-id"));
                    return;
                }
                if (event.target === modal || event.target.id === "modal-close") {
                    closeModal();
                }
            });

            document.querySelectorAll("#filters select").forEach(function (el) {
                el.addEventListener("change", function () { el.form.submit(); });
            });
        })();
    </script>
</body>
</html>
{{end}}

{{define "leadTable"}}
<table class="w-full text-sm">
    <thead class="text-left text-slate-400">
        <tr>{{range .Columns}}<th class="px-4 py-2">{{.}}</th>{{end}}</tr>
    </thead>
    <tbody>
        {{with .Message}}
        <tr class="message-row {{.Kind}}">
            <td colspan="{{$.Colspan}}" class="px-4 py-6 text-center {{if eq .Kind "error"}}text-rose-400{{else}}text-slate-500{{end}}">
                {{.Text}}
                {{if .Hint}}<br /><small class="text-slate-500">{{.Hint}}</small>{{end}}
            </td>
        </tr>
        {{else}}
        {{range .Rows}}
        <tr class="border-t border-slate-800">
            <td class="px-4 py-2 font-medium">{{.Name}}</td>
            {{if .Description}}<td class="px-4 py-2 text-slate-400">{{.Description}}</td>{{else if eq (len $.Columns) 6}}<td class="px-4 py-2"></td>{{end}}
            <td class="px-4 py-2"><span class="badge rounded px-2 py-0.5 text-xs {{.Status.Class}}">{{.Status.Text}}</span></td>
            <td class="px-4 py-2"><span class="badge rounded px-2 py-0.5 text-xs {{.Priority.Class}}">{{.Priority.Text}}</span></td>
            <td class="px-4 py-2 text-slate-400">{{.Created}}</td>
            <td class="px-4 py-2"><button type="button" data-lead-id="{{.ID}}" class="text-emerald-400 hover:underline">View</button></td>
        </tr>
        {{end}}
        {{end}}
    </tbody>
</table>
{{end}}

{{define "bar"}}
<div>
    <div class="flex justify-between text-xs"><span>{{.Label}}</span><span>{{.Count}} ({{.Percent}}%)</span></div>
    <div class="h-2 rounded bg-slate-800"><div class="h-2 rounded {{.Class}}" style="width: {{barWidth .Percent}}%"></div></div>
</div>
{{end}}

{{define "modal"}}
{{if .Loading}}
<p class="modal-loading text-center text-slate-400">{{loadingText}}</p>
{{else if .Error}}
<p class="modal-error text-center text-rose-400">{{.Error}}</p>
{{else}}{{with .Detail}}
<div class="space-y-4">
    <h2 id="modal-title" class="text-lg font-semibold">{{.Name}}</h2>
    <div class="flex gap-2">
        <span class="badge rounded px-2 py-0.5 text-xs {{.Status.Class}}">{{.Status.Text}}</span>
        <span class="badge rounded px-2 py-0.5 text-xs {{.Priority.Class}}">{{.Priority.Text}}</span>
    </div>
    <div>
        <h3 class="text-xs uppercase text-slate-400">Description</h3>
        <p class="text-sm whitespace-pre-line">{{.Description}}</p>
    </div>
    <dl class="grid grid-cols-2 gap-2 text-sm">
        <dt class="text-slate-400">Created</dt><dd>{{.Created}}</dd>
        <dt class="text-slate-400">Updated</dt><dd>{{.Updated}}</dd>
        {{if .Source}}<dt class="text-slate-400">Source</dt><dd>{{.Source}}</dd>{{end}}
    </dl>
    {{if .Link}}<a href="{{.Link}}" target="_blank" rel="noopener noreferrer" class="text-emerald-400 hover:underline">{{.LinkText}}</a>{{end}}
</div>
{{end}}{{end}}
{{end}}
`
