package layout

// templateString returns the dashboard HTML template. The page is static:
// the controls drive the chart endpoints from the browser and never
// rebuild the layout.
func (b *Builder) templateString() string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/alpinejs@3.x.x/dist/cdn.min.js" defer></script>
    <style>
        @import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap');
        body { font-family: 'Inter', sans-serif; }
        .trend-up { color: #10b981; }
        .trend-down { color: #ef4444; }
        .trend-neutral { color: #6b7280; }
    </style>
</head>
<body class="bg-gray-50">
    <!-- Header -->
    <header class="bg-white border-b border-gray-200 sticky top-0 z-50 shadow-sm">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-4">
            <div class="flex items-center justify-between">
                <div>
                    <h1 class="text-2xl font-bold text-gray-900">{{.Title}}</h1>
                    <p class="text-sm text-gray-500 mt-1">Landing outcomes by site and payload - {{formatTimestamp .GeneratedAt}}</p>
                </div>
                {{if .Summary}}
                <div class="flex items-center gap-4">
                    <span class="px-3 py-1 rounded-full text-sm font-medium {{if gt .Summary.SuccessRate 80.0}}bg-green-100 text-green-800{{else if gt .Summary.SuccessRate 50.0}}bg-yellow-100 text-yellow-800{{else}}bg-red-100 text-red-800{{end}}">
                        {{formatSuccessRate .Summary.SuccessRate}}% Success Rate
                    </span>
                    <span class="text-sm text-gray-600">{{.Summary.TotalLaunches}} launches</span>
                </div>
                {{end}}
            </div>
        </div>
    </header>

    <!-- Main Content -->
    <main class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-8">

        <!-- Controls -->
        <section class="mb-8">
            <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                <div class="grid grid-cols-1 lg:grid-cols-2 gap-6">
                    <div>
                        <label for="siteSelect" class="block text-sm font-medium text-gray-700 mb-2">Launch Site</label>
                        <select id="siteSelect" class="w-full rounded-lg border border-gray-300 px-3 py-2 text-sm focus:border-blue-500 focus:ring-blue-500">
                            {{range .SiteOptions}}
                            <option value="{{.}}">{{.}}</option>
                            {{end}}
                        </select>
                    </div>
                    <div>
                        <label class="block text-sm font-medium text-gray-700 mb-2">
                            Payload Mass Range: <span id="rangeLabel" class="font-semibold text-gray-900"></span>
                        </label>
                        <div class="space-y-2">
                            <input type="range" id="payloadMin" class="w-full accent-blue-600"
                                min="{{.Slider.Min}}" max="{{.Slider.Max}}" step="{{.Slider.Step}}" value="{{.Slider.InitialLo}}">
                            <input type="range" id="payloadMax" class="w-full accent-blue-600"
                                min="{{.Slider.Min}}" max="{{.Slider.Max}}" step="{{.Slider.Step}}" value="{{.Slider.InitialHi}}">
                        </div>
                        <p class="text-xs text-gray-500 mt-1">0 to 10,000 kg in 1,000 kg steps, inclusive at both ends</p>
                    </div>
                </div>
            </div>
        </section>

        <!-- Charts -->
        <section class="mb-8">
            <div class="grid grid-cols-1 lg:grid-cols-2 gap-6">
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <div style="position: relative; height: 340px; width: 100%;">
                        <canvas id="successPie"></canvas>
                    </div>
                    <p class="text-xs text-gray-500 mt-3 text-center" id="piePopulation"></p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <div style="position: relative; height: 340px; width: 100%;">
                        <canvas id="payloadScatter"></canvas>
                    </div>
                    <p class="text-xs text-gray-500 mt-3 text-center" id="scatterPopulation"></p>
                </div>
            </div>
        </section>

        {{if .Summary}}
        <!-- Summary Cards -->
        <section class="mb-8">
            <h2 class="text-lg font-semibold text-gray-900 mb-4">Launch Summary</h2>
            <div class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-6">
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">Total Launches</p>
                    <p class="text-3xl font-bold text-gray-900 mt-2">{{.Summary.TotalLaunches}}</p>
                    <p class="text-xs text-gray-500 mt-1">{{len .SiteOptions}} site options</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-green-200 p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">Successful Landings</p>
                    <p class="text-3xl font-bold text-green-600 mt-2">{{.Summary.Successes}}</p>
                    <p class="text-xs text-green-600 mt-1">booster recovered</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border {{if gt .Summary.Failures 0}}border-red-300{{else}}border-gray-200{{end}} p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">Failed Landings</p>
                    <p class="text-3xl font-bold text-red-600 mt-2">{{.Summary.Failures}}</p>
                    <p class="text-xs text-gray-500 mt-1">booster lost</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">Success Rate</p>
                    <p class="text-3xl font-bold text-gray-900 mt-2">{{formatSuccessRate .Summary.SuccessRate}}%</p>
                    <p class="text-xs text-gray-500 mt-1">across all sites</p>
                </div>
            </div>
        </section>

        <!-- Payload Statistics -->
        <section class="mb-8">
            <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                <h3 class="text-sm font-semibold text-gray-700 mb-4">Payload Mass Statistics</h3>
                <div class="grid grid-cols-2 md:grid-cols-5 gap-4 text-center">
                    <div>
                        <p class="text-xs text-gray-500">Min</p>
                        <p class="text-lg font-semibold text-gray-900">{{formatPayload .Summary.Payload.Min}}</p>
                    </div>
                    <div>
                        <p class="text-xs text-gray-500">Median</p>
                        <p class="text-lg font-semibold text-gray-900">{{formatPayload .Summary.Payload.Median}}</p>
                    </div>
                    <div>
                        <p class="text-xs text-gray-500">Mean</p>
                        <p class="text-lg font-semibold text-gray-900">{{formatPayload .Summary.Payload.Mean}}</p>
                    </div>
                    <div>
                        <p class="text-xs text-gray-500">Max</p>
                        <p class="text-lg font-semibold text-gray-900">{{formatPayload .Summary.Payload.Max}}</p>
                    </div>
                    <div>
                        <p class="text-xs text-gray-500">Payload/Outcome r</p>
                        <p class="text-lg font-semibold text-gray-900">{{printf "%.2f" .Summary.PayloadCorrelation}}</p>
                    </div>
                </div>
            </div>
        </section>
        {{end}}

        {{if .Insights}}
        <!-- Insights -->
        <section class="mb-8">
            <div class="bg-white border border-gray-200 rounded-lg shadow-md overflow-hidden">
                <!-- Outlook Banner -->
                <div class="px-6 py-4 {{if eq .Insights.Outlook "Strong"}}bg-green-100 border-b border-green-200{{else if eq .Insights.Outlook "Promising"}}bg-blue-100 border-b border-blue-200{{else if eq .Insights.Outlook "Mixed"}}bg-yellow-100 border-b border-yellow-200{{else}}bg-red-100 border-b border-red-200{{end}}">
                    <div class="flex items-center justify-between">
                        <h3 class="text-lg font-bold {{if eq .Insights.Outlook "Strong"}}text-green-900{{else if eq .Insights.Outlook "Promising"}}text-blue-900{{else if eq .Insights.Outlook "Mixed"}}text-yellow-900{{else}}text-red-900{{end}}">
                            Program Outlook: {{.Insights.Outlook}}
                        </h3>
                        <span class="text-sm font-medium {{if eq .Insights.TrendIndicator "Improving"}}trend-up{{else if eq .Insights.TrendIndicator "Declining"}}trend-down{{else}}trend-neutral{{end}}">
                            {{.Insights.TrendIndicator}}
                        </span>
                    </div>
                </div>

                <div class="px-6 py-6">
                    <div class="grid grid-cols-1 lg:grid-cols-2 gap-6">
                        <div>
                            <h4 class="text-sm font-semibold text-gray-900 mb-3">Key Findings</h4>
                            <div class="space-y-2">
                                {{range .Insights.KeyFindings}}
                                <div class="flex items-start bg-gray-50 rounded-lg p-3 border border-gray-200">
                                    <span class="text-sm text-gray-700">{{.}}</span>
                                </div>
                                {{end}}
                            </div>
                        </div>
                        <div>
                            {{if .Insights.WatchItems}}
                            <h4 class="text-sm font-semibold text-red-900 mb-3">Watch Items</h4>
                            <div class="space-y-2 mb-4">
                                {{range .Insights.WatchItems}}
                                <div class="flex items-start bg-red-50 rounded-lg p-3 border-l-4 border-red-500">
                                    <span class="text-sm text-red-800">{{.}}</span>
                                </div>
                                {{end}}
                            </div>
                            {{end}}
                            <div class="bg-blue-50 rounded-lg p-4 border border-blue-200">
                                <h4 class="text-sm font-semibold text-blue-900 mb-2">Recommendation</h4>
                                <p class="text-sm text-blue-800">{{.Insights.Recommendation}}</p>
                            </div>
                        </div>
                    </div>
                </div>
            </div>
        </section>
        {{end}}

        <!-- Launch Records -->
        <section class="mb-8" x-data="{ showRecords: false }">
            <div class="bg-white rounded-lg shadow-sm border border-gray-200">
                <div class="p-6 flex items-center justify-between cursor-pointer" @click="showRecords = !showRecords">
                    <h2 class="text-lg font-semibold text-gray-900">Launch Records</h2>
                    <span class="text-sm text-blue-600" x-text="showRecords ? 'Hide' : 'Show all'"></span>
                </div>
                <div class="px-6 pb-6 overflow-x-auto" x-show="showRecords" x-cloak>
                    <table class="min-w-full divide-y divide-gray-200 text-sm">
                        <thead>
                            <tr class="text-left text-xs font-medium text-gray-500 uppercase tracking-wider">
                                <th class="py-2 pr-4">Flight</th>
                                <th class="py-2 pr-4">Site</th>
                                <th class="py-2 pr-4">Payload</th>
                                <th class="py-2 pr-4">Booster</th>
                                <th class="py-2 pr-4">Category</th>
                                <th class="py-2">Outcome</th>
                            </tr>
                        </thead>
                        <tbody class="divide-y divide-gray-100">
                            {{range .Records}}
                            <tr class="hover:bg-gray-50">
                                <td class="py-2 pr-4 text-gray-900">{{.FlightNumber}}</td>
                                <td class="py-2 pr-4 text-gray-700">{{.Site}}</td>
                                <td class="py-2 pr-4 text-gray-700">{{formatPayload .PayloadMass}}</td>
                                <td class="py-2 pr-4 text-gray-700">{{.BoosterVersion}}</td>
                                <td class="py-2 pr-4 text-gray-700">{{.BoosterCategory}}</td>
                                <td class="py-2">
                                    {{if .Success}}
                                    <span class="inline-flex px-2 py-0.5 rounded-full text-xs font-medium bg-green-100 text-green-800">{{outcomeLabel .Class}}</span>
                                    {{else}}
                                    <span class="inline-flex px-2 py-0.5 rounded-full text-xs font-medium bg-red-100 text-red-800">{{outcomeLabel .Class}}</span>
                                    {{end}}
                                </td>
                            </tr>
                            {{end}}
                        </tbody>
                    </table>
                </div>
            </div>
        </section>

        <!-- Footer -->
        <footer class="text-center text-xs text-gray-400 py-4">
            Data refreshed {{formatTimestamp .GeneratedAt}}
        </footer>
    </main>

    <script>
        const initialPie = {{toJSON .InitialPie}};
        const initialScatter = {{toJSON .InitialScatter}};

        let pieChart = null;
        let scatterChart = null;

        function drawPie(data) {
            const ctx = document.getElementById('successPie');
            if (pieChart) { pieChart.destroy(); }
            pieChart = new Chart(ctx, {
                type: 'pie',
                data: {
                    labels: data.labels || [],
                    datasets: [{
                        data: data.values || [],
                        backgroundColor: data.colors || []
                    }]
                },
                options: {
                    responsive: true,
                    maintainAspectRatio: false,
                    plugins: {
                        title: { display: true, text: data.title },
                        legend: { position: 'bottom' }
                    }
                }
            });
            document.getElementById('piePopulation').textContent =
                data.population + ' launches in view';
        }

        function drawScatter(data) {
            const ctx = document.getElementById('payloadScatter');
            if (scatterChart) { scatterChart.destroy(); }
            const datasets = (data.series || []).map(function (s) {
                return {
                    label: s.name,
                    data: (s.points || []).map(function (p) { return { x: p.x, y: p.y }; }),
                    backgroundColor: s.color,
                    pointRadius: 5
                };
            });
            scatterChart = new Chart(ctx, {
                type: 'scatter',
                data: { datasets: datasets },
                options: {
                    responsive: true,
                    maintainAspectRatio: false,
                    plugins: {
                        title: { display: true, text: data.title },
                        legend: { position: 'bottom' }
                    },
                    scales: {
                        x: {
                            title: { display: true, text: data.x_label }
                        },
                        y: {
                            min: -0.2,
                            max: 1.2,
                            ticks: {
                                stepSize: 1,
                                callback: function (v) {
                                    if (v === 1) { return 'Success'; }
                                    if (v === 0) { return 'Failure'; }
                                    return '';
                                }
                            },
                            title: { display: true, text: data.y_label }
                        }
                    }
                }
            });
            document.getElementById('scatterPopulation').textContent =
                data.population + ' launches in view';
        }

        function currentRange() {
            let lo = parseFloat(document.getElementById('payloadMin').value);
            let hi = parseFloat(document.getElementById('payloadMax').value);
            if (lo > hi) { const t = lo; lo = hi; hi = t; }
            return { lo: lo, hi: hi };
        }

        function updateRangeLabel() {
            const r = currentRange();
            document.getElementById('rangeLabel').textContent = r.lo + ' kg to ' + r.hi + ' kg';
        }

        async function refreshPie() {
            const site = document.getElementById('siteSelect').value;
            const resp = await fetch('/api/charts/outcomes?site=' + encodeURIComponent(site));
            drawPie(await resp.json());
        }

        async function refreshScatter() {
            const site = document.getElementById('siteSelect').value;
            const r = currentRange();
            const resp = await fetch('/api/charts/payload?site=' + encodeURIComponent(site) +
                '&min=' + r.lo + '&max=' + r.hi);
            drawScatter(await resp.json());
        }

        document.getElementById('siteSelect').addEventListener('change', function () {
            refreshPie();
            refreshScatter();
        });
        document.getElementById('payloadMin').addEventListener('change', function () {
            updateRangeLabel();
            refreshScatter();
        });
        document.getElementById('payloadMax').addEventListener('change', function () {
            updateRangeLabel();
            refreshScatter();
        });

        updateRangeLabel();
        drawPie(initialPie);
        drawScatter(initialScatter);
    </script>
</body>
</html>`
}
