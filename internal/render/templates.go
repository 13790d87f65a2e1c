package render

const errorSVG = `
  <svg width="400" height="60" xmlns="http://www.w3.org/2000/svg">
    <rect width="100%" height="100%" fill="#f8d7da" rx="5"/>
    <text x="50%" y="50%" dominant-baseline="middle" text-anchor="middle" font-family="Arial" font-size="14" fill="#721c24">{{html .}}</text>
  </svg>`

// Both palettes ship with every card; the viewer's color scheme picks one.
const themeCSS = `
    .bg { fill: #0d1117; stroke: #30363d; }
    .title { font-family: -apple-system, BlinkMacSystemFont, Segoe UI, sans-serif; font-weight: 600; font-size: 14px; letter-spacing: 1px; text-transform: uppercase; fill: #e6edf3; }
    .subtitle { font-family: sans-serif; font-size: 10px; fill: #8b949e; opacity: 0.6; }
    .day-label { font-family: monospace; font-size: 12px; font-weight: 600; fill: #8b949e; }
    .bar-normal { fill: #104C35; }
    .bar-active { fill: #5FED83; }
    .repo-name { font-family: monospace; font-size: 12px; fill: #8b949e; }
    .repo-active { font-family: monospace; font-size: 12px; font-weight: 600; fill: #5FED83; }
    .stars { font-family: monospace; font-size: 12px; fill: #e6edf3; }
    .avatar-placeholder { fill: #30363d; }

    @media (prefers-color-scheme: light) {
      .bg { fill: #ffffff; stroke: #e1e4e8; }
      .title { fill: #24292f; }
      .day-label { fill: #57606a; }
      .bar-normal { fill: #BFFFD1; }
      .bar-active { fill: #08872B; }
      .repo-name { fill: #57606a; }
      .repo-active { fill: #08872B; }
      .stars { fill: #24292f; }
      .avatar-placeholder { fill: #e1e4e8; }
    }

    .fade-in { opacity: 0; animation: fadeIn 0.6s forwards ease-out; }
    @keyframes fadeIn { from { opacity: 0; transform: translateY(10px); } to { opacity: 1; transform: translateY(0); } }`

const daySVG = `
  <svg width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" xmlns="http://www.w3.org/2000/svg">
    <style>` + themeCSS + `
    </style>

    <rect width="100%" height="100%" rx="10" class="bg" />
    <text x="50%" y="28" text-anchor="middle" class="subtitle">{{.Summary}}</text>
{{range .Bars}}
    <g class="fade-in" style="animation-delay: {{.Delay}}ms">
      <rect x="{{num .X}}" y="{{num .Y}}" width="{{$.BarWidth}}" height="{{num .Height}}" rx="4" class="{{.Class}}" />
      <text x="{{num .LabelX}}" y="{{$.Baseline}}" dy="20" text-anchor="middle" class="day-label">{{.Label}}</text>
    </g>
{{end}}
    <text x="50%" y="{{.Baseline}}" dy="50" text-anchor="middle" class="title">Contribution Distribution</text>
    <text x="50%" y="{{.Baseline}}" dy="70" text-anchor="middle" class="subtitle">{{html .Footer}}</text>
  </svg>`

const repoSVG = `
  <svg width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" xmlns="http://www.w3.org/2000/svg">
    <style>` + themeCSS + `
    </style>
    <defs>
      <clipPath id="avatar-clip">
        <circle cx="{{.AvatarRadius}}" cy="{{.AvatarRadius}}" r="{{.AvatarRadius}}" />
      </clipPath>
    </defs>

    <rect width="100%" height="100%" rx="10" class="bg" />
    <text x="20" y="30" class="title">{{html .Title}}</text>
    <text x="20" y="46" class="subtitle">@{{html .Login}} · recent pull requests</text>
{{range .Rows}}
    <g class="fade-in" style="animation-delay: {{.Delay}}ms" transform="translate(20, {{.Y}})">
{{- if .AvatarData}}
      <image href="{{html .AvatarData}}" x="0" y="0" width="{{$.AvatarSize}}" height="{{$.AvatarSize}}" clip-path="url(#avatar-clip)" />
{{- else}}
      <circle cx="{{$.AvatarRadius}}" cy="{{$.AvatarRadius}}" r="{{$.AvatarRadius}}" class="avatar-placeholder" />
{{- end}}
      <text x="40" y="19" class="{{.Class}}">{{html .FullName}}</text>
      <text x="360" y="19" text-anchor="end" class="stars">★ {{.Stars}}</text>
    </g>
{{else}}
    <text x="50%" y="{{.EmptyY}}" text-anchor="middle" class="repo-name">No recent pull requests</text>
{{end}}
  </svg>`
