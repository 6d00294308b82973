package render

// maternitySource is the rural maternity-benefit petition, laid out with
// tables so that it survives a round trip through word processors.
const maternitySource = `<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: 'Times New Roman', serif; font-size: 12pt; color: #000; line-height: 1.5; }
  p { margin-top: 0; margin-bottom: 12px; text-align: justify; }
  table { border-collapse: collapse; width: 100%; font-size: 11pt; }
  td, th { vertical-align: top; }
  table p { margin: 0; line-height: 1.2; }
  .data-table td { border: 1px solid #000; padding: 4px 6px; }
  .bg-gray { background-color: #f0f0f0; font-weight: bold; width: 40%; }
  h2 { text-align: center; font-size: 14pt; margin: 20px 0; font-weight: bold; }
  h3 { font-size: 12pt; text-transform: uppercase; margin-top: 20px; font-weight: bold; text-decoration: underline; }
</style>
</head>
<body>
{{with .Office}}
<table width="100%" style="width: 100%; border-bottom: 2px solid #000; margin-bottom: 20px;" cellspacing="0" cellpadding="0">
  <tr>
    <td style="width: 80px; vertical-align: middle; padding-bottom: 10px;">
      {{if .LogoURL}}<img src="{{.LogoURL}}" width="70" height="70" style="width: 70px; height: 70px; object-fit: contain;" alt="Logo" />{{else}}<div style="width: 70px; height: 70px; background: #f0f0f0;"></div>{{end}}
    </td>
    <td style="vertical-align: middle; padding-left: 10px; padding-bottom: 10px;">
      <p style="margin: 0; font-size: 16pt; font-weight: bold; text-transform: uppercase; color: #000;">{{.Name}}</p>
      {{if .CNPJ}}<p style="margin: 0; font-size: 9pt; color: #666;">CNPJ: {{.CNPJ}}</p>{{end}}
      <div style="margin-top: 5px; font-size: 9pt; color: #444;">
        {{if .Address}}<span>{{.Address}}{{if .City}}, {{.City}}{{end}}{{if .State}}-{{.State}}{{end}}</span><br>{{end}}
        <span>{{if .Phone}}Tel: {{.Phone}}{{end}}{{if .SecondaryPhone}} | {{.SecondaryPhone}}{{end}}{{if .Email}} | {{.Email}}{{end}}{{if .Website}} | {{.Website}}{{end}}</span>
      </div>
      {{if .Slogan}}<p style="margin: 5px 0 0 0; font-size: 9pt; font-style: italic; color: #666;">"{{.Slogan}}"</p>{{end}}
    </td>
  </tr>
</table>
{{end}}
<p align="center" style="font-weight: bold; text-transform: uppercase; margin-bottom: 20px;">{{.Heading}}</p>

<div style="text-align: center; font-weight: bold; margin: 20px 0;">
  SEGURADO ESPECIAL <br> JUÍZO 100% DIGITAL
</div>

<table width="100%" style="width: 100%; border: 1px solid #000; margin: 15px 0;" cellspacing="0" cellpadding="5">
  <tr>
    <td>
      <b>Prioridade Legal na tramitação processual:</b><br>
      ( {{check .Priorities.Elderly}} ) Idoso(a) maior de 60 anos - Lei 10.741/2003<br>
      ( {{check .Priorities.Disabled}} ) Deficiente - Lei 12.008/2009 - Laudo em anexo<br>
      ( {{check .Priorities.Minor}} ) Menor nos termos do ECA - Lei 8.069/1990
    </td>
  </tr>
</table>

<p>
  <b>{{upper .Client.Name}}</b>, {{.Client.Nationality}}, {{.Client.MaritalStatus}},
  {{.Profession}},
  nascido(a) em {{date .Client.BirthDate}} ({{.Age}}), portador(a) do CPF nº {{.Client.CPF}} e RG nº {{.Client.RG}} ({{.Client.RGIssuer}}),
  residente e domiciliado(a) em {{.Client.Address}}, por meio de seus procuradores infra firmados,
  com endereço eletrônico em {{.Email}}, endereço físico descrito no rodapé da página,
  onde recebe intimações e notificações, de estilo, vem a ínclita presença de Vossa Excelência, com fulcro no art. 5º, inciso V da CF/88,
  cumulado com a Lei nº 8.078/90 e demais dispositivo aplicáveis à espécie, propor a presente
</p>

<h2>AÇÃO PREVIDENCIÁRIA DE CONCESSÃO DE SALÁRIO MATERNIDADE (RURAL)</h2>

<p>
  Em face do <b>INSTITUTO NACIONAL DO SEGURO SOCIAL - INSS</b>, pessoa jurídica de direito público,
  podendo ser citado em sua agência mais próxima localizada à <b>{{.INSSAddress}}</b>.
</p>

<h3>I. PRELIMINARMENTE</h3>
{{.Preliminaries}}

<h3>II. QUADRO SINÓPTICO</h3>
<p style="font-weight: bold; margin-bottom: 5px;">RESUMO DAS PRINCIPAIS INFORMAÇÕES DO PROCESSO</p>
<table class="data-table" cellspacing="0" cellpadding="4">
{{range .Synopsis}}  <tr><td class="bg-gray">{{.Label}}:</td><td>{{.Value}}</td></tr>
{{end}}</table>

<h3>III. SÍNTESE DO CONTEXTO FÁTICO</h3>
{{.Facts}}

<h3>IV. DAS PROVAS JUNTADAS AOS AUTOS</h3>
<ol style="margin-left: 20px;">
  <li>Certidão de nascimento da criança {{.ChildName}} constando a zona rural como local de nascimento;</li>
  <li>Certidão eleitoral constando a comunidade rural como local de votação;</li>
{{range .Evidence}}  <li>{{.}}</li>
{{else}}  <li>Outros documentos em anexo.</li>
{{end}}</ol>
<p>
  O contexto probatório carreado, não deixa dúvida que a parte Autora é segurada especial, possui início de prova material,
  vive em regime de economia familiar exercido em condições de mútua dependência e colaboração, com sua família para garantir sua subsistência,
  comprovando-se a carência exigida pela lei, fazendo jus ao benefício pleiteado.
</p>

<h3>V. FUNDAMENTAÇÃO JURÍDICA</h3>
<p>O salário-maternidade é um direito assegurado pelo art. 71 da Lei nº 8.213/1991, estendido às seguradas especiais pelo art. 39, parágrafo único, da mesma lei, que garante o benefício mediante comprovação de atividade rural nos 10 meses anteriores ao parto.</p>
<p>Entretanto, recentemente, o STF ao julgar Ações Diretas de Inconstitucionalidade (ADIs) 2110 e 2111, decidiu que a exigência de carência (período mínimo de 10 meses de contribuição) para o pagamento do salário-maternidade às seguradas especiais, como as trabalhadoras rurais, é inconstitucional.</p>
<p>Portanto, presentes os requisitos: maternidade comprovada e exercício de atividade rural no período de carência, o indeferimento administrativo viola os princípios da legalidade e da proteção social.</p>
{{if .Precedents}}
<h3>VI. JURISPRUDÊNCIA</h3>
<p>Em reforço à fundamentação acima, destacam-se as seguintes decisões dos tribunais superiores:</p>
{{range $i, $p := .Precedents}}<div style="margin: 15px 0; border-left: 3px solid #000; padding-left: 10px;">
  <p style="margin: 0; font-weight: bold;">{{inc $i}}. {{$p.Court}}</p>
  <p style="margin: 5px 0; font-style: italic;">"{{$p.Summary}}"</p>
  <p style="margin: 0; font-size: 10pt; color: #555;">{{$p.Reference}}</p>
</div>
{{end}}{{end}}
<h3>{{if .Precedents}}VII{{else}}VI{{end}}. PEDIDO/REQUERIMENTOS</h3>
<p>Diante do exposto, requer:</p>
<ol style="margin-left: 20px;">
  <li>A citação do INSS para contestar a ação;</li>
  <li>A procedência do pedido para condenar o INSS a conceder o Salário-Maternidade Rural;</li>
  <li>O pagamento das parcelas vencidas, monetariamente corrigidas;</li>
  <li>A concessão da Gratuidade da Justiça;</li>
  <li>A condenação em honorários advocatícios sucumbenciais.</li>
</ol>

<p>Protesta o alegado por todos os meios admitidos em direito.</p>

<p>Dar-se à causa o valor de <b>{{.Total}}</b> ({{.TotalInWords}}), renunciando a eventual excedente da alçada do Juizado Especial Federal.</p>

<p style="font-weight: bold; margin-top: 20px;">PLANILHA DE CÁLCULO</p>
<table class="data-table" cellspacing="0" cellpadding="4" style="text-align: center;">
  <tr class="bg-gray"><td>Competência</td><td>Valor Base</td><td>Valor Reajustado</td></tr>
{{range .Rows}}  <tr><td style="border: 1px solid #000; padding: 4px;">{{.Period}}</td><td style="border: 1px solid #000; padding: 4px;">{{.Base}}</td><td style="border: 1px solid #000; padding: 4px;">{{.Adjusted}}</td></tr>
{{else}}  <tr><td colspan="3">Cálculo não gerado</td></tr>
{{end}}  <tr style="font-weight: bold;"><td colspan="2" style="text-align: right;">TOTAL</td><td>{{.Total}}</td></tr>
</table>

<div style="margin-top: 15px; padding: 10px; background: #f9f9f9; border: 1px solid #ddd; font-size: 10pt;">
  <p style="font-weight: bold; margin: 0 0 5px 0;">METODOLOGIA DE CÁLCULO:</p>
  <p style="margin: 0;">O salário-maternidade rural é calculado com base no valor de 1 (um) salário mínimo vigente no mês de competência (Lei 8.213/91). Benefício de 120 dias.</p>
</div>

<div style="margin-top: 60px; text-align: center;">
  <p>Termos em que, pede e espera deferimento.</p>
  <p>{{.Closing}}.</p>
  <br><br><br>
{{range .Signers}}  <div style="display: inline-block; margin: 0 20px; text-align: center; min-width: 200px; vertical-align: top;">
    <p style="margin-bottom: 30px; color: #000;">_________________________________</p>
    <b style="text-transform: uppercase;">{{upper .FullName}}</b><br>
    <span style="font-size: 10pt;">OAB {{or .OAB "..."}}</span>
  </div>
{{end}}</div>

<div style="margin-top: 40px; padding-top: 15px; border-top: 1px solid #ccc; font-size: 8pt; color: #666;">
  <span><b>ID:</b> {{.DocumentID}}</span>
  <span><b>Gerado por:</b> {{.GeneratedBy}} | {{.GeneratedAt}}</span>
</div>
</body>
</html>
`
