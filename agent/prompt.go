package agent

import (
	"strings"
)

// Placeholders recognized in instruction templates.
const (
	PlaceholderClientName   = "{{client_name}}"
	PlaceholderDocType      = "{{doc_type}}"
	PlaceholderCaseDetails  = "{{case_details}}"
	PlaceholderLegalContext = "{{legal_context}}"
)

// FillTemplate substitutes the named placeholders of tmpl. Unknown
// placeholders are left as they are.
func FillTemplate(tmpl string, vars Variables) string {
	r := strings.NewReplacer(
		PlaceholderClientName, vars.ClientName,
		PlaceholderDocType, vars.DocType,
		PlaceholderCaseDetails, vars.Details,
		PlaceholderLegalContext, vars.LegalContext,
	)
	return r.Replace(tmpl)
}

const legalContextBlock = `
=== SUBSÍDIO JURÍDICO (PESQUISA RECENTE) ===
Utilize obrigatoriamente estas fontes encontradas:
{{legal_context}}
====================================`

// DefaultTemplate returns the rural social-security instruction template for
// a document type. It is used when the caller supplies no template of its own.
func DefaultTemplate(docType string) string {
	lower := strings.ToLower(docType)

	switch {
	case strings.Contains(lower, "inicial") || strings.Contains(lower, "ação"):
		return `ATUE COMO: Advogado Especialista em Direito Previdenciário Rural.
TAREFA: Redigir PETIÇÃO INICIAL para {{client_name}}.
OBJETO: {{case_details}}
` + legalContextBlock + `

DIRETRIZES ESTRATÉGICAS:
1. DOS FATOS:
   - Detalhar a vida rurícola em regime de economia familiar.
   - Listar o "Início de Prova Material" (documentos em nome da autora ou dos pais/cônjuge).
   - Mencionar a Autodeclaração Rural homologada, se houver.
2. DO DIREITO:
   - Fundamentar nos arts. 39, parágrafo único, e 71 da Lei 8.213/91.
   - Citar a Súmula 149 do STJ (prova testemunhal corroborando a documental).
   - Defender a inexigibilidade de contribuição previdenciária direta.
   - Integrar o subsídio jurídico fornecido acima.
3. DOS PEDIDOS: tutela de urgência se houver risco, procedência total.`

	case strings.Contains(lower, "recurso"):
		return `ATUE COMO: Advogado Recursal Previdenciário (Rural).
TAREFA: Redigir {{doc_type}}.
CASO: {{case_details}}
` + legalContextBlock + `

ESTRATÉGIA RECURSAL:
1. PRELIMINAR: cerceamento de defesa se não foram ouvidas testemunhas indispensáveis (Súmula 577 STJ).
2. MÉRITO:
   - A descontinuidade do trabalho rural não descaracteriza a condição de segurada especial.
   - Combater a tese de descaracterização pelo trabalho urbano de membro da família (Tema 532 STJ).
   - Citar precedentes da TNU favoráveis à trabalhadora rural.`

	case strings.Contains(lower, "réplica") || strings.Contains(lower, "contestação"):
		return `ATUE COMO: Advogado Previdenciarista.
TAREFA: Redigir RÉPLICA À CONTESTAÇÃO do INSS.
CASO: {{case_details}}
` + legalContextBlock + `

PONTOS DE ATAQUE:
- Refutar a alegação genérica de falta de provas.
- Defender a validade dos documentos apresentados como início de prova material.
- Requerer a produção de prova testemunhal para corroborar o período.`
	}

	return `ATUE COMO: Advogado Previdenciarista Rural.
TAREFA: Redigir "{{doc_type}}" para a cliente {{client_name}}.
DETALHES: {{case_details}}
` + legalContextBlock + `
OBS: Mantenha o foco na proteção da trabalhadora rural (segurada especial) e use as leis pesquisadas.`
}

// ReviewerContract is appended after the agent's own JSON instructions. It
// asks the backend to formalize the raw form fields inside the same object.
const ReviewerContract = `
================================================================================
ATENÇÃO: VOCÊ AGORA ATUA COMO UM REVISOR JURÍDICO SÊNIOR
================================================================================

Sua tarefa PRINCIPAL é corrigir os erros de português e formalizar os dados inseridos pelo usuário.
O usuário digitou dados crus e informais (ex: "salaro", "oitavu", "nao tem").

REGRAS OBRIGATÓRIAS DE SAÍDA (JSON):

1. CORREÇÃO GRAMATICAL NO CAMPO "dados_tecnicos":
   Preencha o objeto "dados_tecnicos" com a versão culta e jurídica dos dados.
   - "salaro" -> "Salário-Maternidade"
   - "oitavu mes" -> "Oitavo mês de gestação"
   - "dus 12 anos" -> "Desde os 12 anos de idade até a atualidade"
   - "nao tem" -> "Não consta / Nunca possuiu"

2. LISTA DE PROVAS ÚNICA E LIMPA ("lista_provas"):
   - Liste APENAS os documentos mencionados nos fatos.
   - NÃO repita documentos com nomes parecidos.
   - Máximo de 5 itens na lista.

3. CORREÇÕES TEXTUAIS ("correcoes"):
   Para cada trecho digitado com erro, informe {"original": "trecho com erro", "correto": "versão corrigida"}.

4. DADOS CADASTRAIS ("dados_cadastrais_corrigidos"):
   Informe APENAS os campos cadastrais que precisaram de correção (name, address,
   neighborhood, city, state, profession, children). Omita os demais.

ACRESCENTE AO MESMO OBJETO JSON:
{
    "dados_tecnicos": {
        "motivo_indeferimento": "Texto corrigido e formal",
        "tempo_atividade": "Texto corrigido e formal",
        "periodo_rural_declarado": "Texto corrigido (ex: Desde os 12 anos...)",
        "ponto_controvertido": "Texto jurídico (ex: Qualidade de Segurado Especial)",
        "beneficio_anterior": "Texto corrigido (ex: Recebeu Salário-Maternidade em 2022)",
        "cnis_averbado": "Texto corrigido (ex: Não constam vínculos)",
        "vinculo_urbano": "Texto corrigido (ex: Nunca exerceu atividade urbana)",
        "profissao_formatada": "Texto corrigido (ex: Agricultora em regime de economia familiar)"
    },
    "correcoes": [{"original": "...", "correto": "..."}],
    "dados_cadastrais_corrigidos": {"name": "...", "profession": "..."}
}

RESPONDA APENAS COM UM ÚNICO OBJETO JSON. SEM TEXTO ANTES OU DEPOIS.
`

// BuildFullPrompt fills tmpl, then appends the agent's JSON instructions and
// the reviewer contract. Raw case details are appended when tmpl does not
// reference them.
func BuildFullPrompt(a Agent, tmpl string, vars Variables) string {
	var b strings.Builder
	b.WriteString(FillTemplate(tmpl, vars))
	b.WriteString("\n\n")
	b.WriteString(a.BuildPrompt(vars))
	b.WriteString("\n")
	b.WriteString(ReviewerContract)

	if !strings.Contains(tmpl, PlaceholderCaseDetails) {
		b.WriteString("\n\n--- DADOS BRUTOS (PARA CORREÇÃO) ---\n")
		b.WriteString(vars.Details)
	}
	return b.String()
}
