package web

// pageTemplates holds the upload form and the error page. The UI is a single
// synchronous form; the archive comes back as the response body.
const pageTemplates = `
{{define "index"}}<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>貼紙自動生成</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; padding: 0 1rem; }
fieldset { margin-bottom: 1rem; }
</style>
</head>
<body>
<h1>📄 貼紙自動生成</h1>
<p>アップロードされたExcelファイル（{{.SheetName}}）の情報に基づいて、貼紙のWord文書を生成します。</p>
<form action="/generate" method="post" enctype="multipart/form-data">
  <fieldset>
    <legend>1. Excelファイル (.xlsx)</legend>
    <input type="file" name="workbook" accept=".xlsx,.xls" required>
  </fieldset>
  <fieldset>
    <legend>2. Wordテンプレート (.docx、省略時は {{.TemplatePath}})</legend>
    <input type="file" name="template" accept=".docx">
  </fieldset>
  <button type="submit">3. Word文書を生成する</button>
</form>
</body>
</html>
{{end}}

{{define "error"}}<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>エラー</title></head>
<body>
<h1>❌ エラー</h1>
<p>{{.Message}}</p>
<p><a href="/">戻る</a></p>
</body>
</html>
{{end}}
`
