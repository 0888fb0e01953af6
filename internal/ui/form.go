package ui

import (
	"html/template"
	"net/http"

	"github.com/healthcase/symptom-checker/internal/config"
)

// Minimal browser front-end: one page that collects the structured
// fields and posts them to /analyze as JSON.
const formTpl = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.AppName}}</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2em auto; }
fieldset { margin-bottom: 1em; }
label { display: inline-block; min-width: 12em; }
.symptom { min-width: 14em; display: inline-block; }
#result { white-space: pre-wrap; background: #f4f4f4; padding: 1em; }
.emergency { color: #b00; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.AppName}}</h1>
<p><em>Educational use only. Not for medical diagnosis or treatment.</em></p>

<fieldset>
<legend>Basic information</legend>
<p><label>Age</label><input id="age" type="number"></p>
<p><label>Gender (M/F)</label><input id="gender" maxlength="1"></p>
<p><label>Weight (kg)</label><input id="weight" type="number" step="0.1"></p>
<p><label>Temperature (&deg;C)</label><input id="temperature" type="number" step="0.1"></p>
<p><label>Duration (days)</label><input id="duration"></p>
<p><label>Chronic diseases</label><input id="chronic" type="checkbox"></p>
</fieldset>

<fieldset>
<legend>Symptoms</legend>
{{range .Symptoms}}<span class="symptom"><input type="checkbox" class="sym" value="{{.Name}}"> {{.Name}}</span>
{{end}}
</fieldset>

<fieldset>
<legend>Test results (optional)</legend>
{{range .Tests}}<p><label>{{.Name}}</label><input class="lab" data-name="{{.Name}}" data-type="{{.Type}}"></p>
{{end}}
</fieldset>

<button onclick="analyze()">Analyze</button>
<h2>Result</h2>
<div id="result"></div>

<script>
async function analyze() {
  const basic = {};
  const age = document.getElementById('age').value;
  if (age) basic.age = Number(age);
  const gender = document.getElementById('gender').value;
  if (gender) basic.gender = gender;
  const weight = document.getElementById('weight').value;
  if (weight) basic.weight = Number(weight);
  const temp = document.getElementById('temperature').value;
  if (temp) basic.temperature = Number(temp);
  const duration = document.getElementById('duration').value;
  if (duration) basic.duration = duration;
  basic.chronic_diseases = document.getElementById('chronic').checked;

  const symptoms = {};
  document.querySelectorAll('.sym:checked').forEach(el => { symptoms[el.value] = true; });

  const tests = {};
  document.querySelectorAll('.lab').forEach(el => {
    if (!el.value) return;
    tests[el.dataset.name] = el.dataset.type === 'boolean' ? el.value : Number(el.value);
  });

  const out = document.getElementById('result');
  out.textContent = 'Analyzing...';
  out.classList.remove('emergency');
  try {
    const resp = await fetch('/analyze', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({basic_info: basic, symptoms: symptoms, test_results: tests}),
    });
    const body = await resp.json();
    if (body.success) {
      out.textContent = body.data.analysis + '\n\n' + body.data.disclaimer;
    } else if (body.emergency) {
      out.classList.add('emergency');
      out.textContent = body.message;
    } else {
      out.textContent = 'Error: ' + (body.message || body.error);
    }
  } catch (err) {
    out.textContent = 'Request failed: ' + err;
  }
}
</script>
</body>
</html>
`

var tpl = template.Must(template.New("form").Parse(formTpl))

type formData struct {
	AppName  string
	Symptoms []config.Symptom
	Tests    []config.LabTest
}

// FormHandler serves the form, with checkboxes and inputs generated from
// the configured vocabularies.
func FormHandler(defs *config.Definitions) http.HandlerFunc {
	data := formData{
		AppName:  config.AppName,
		Symptoms: defs.Symptoms,
		Tests:    defs.Tests,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tpl.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
