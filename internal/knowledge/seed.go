package knowledge

// defaultItems returns the curated sales content every fresh knowledge base
// starts with.
func defaultItems() []Item {
	return []Item{
		{
			Category: CategoryProductInfo,
			Title:    "LinkMágico Chatbot - Visão Geral",
			Content: "O LinkMágico Chatbot é uma solução de IA conversacional de nova geração que revoluciona o atendimento ao cliente e vendas online. " +
				"Diferente dos chatbots tradicionais, oferece conversas naturais, inteligência contextual e capacidade de extração universal de dados web. " +
				"Funciona 24/7, nunca trava, e é capaz de atender múltiplos clientes simultaneamente com respostas personalizadas e persuasivas.",
			Keywords:    []string{"linkmagico", "chatbot", "ia", "conversacional", "atendimento", "vendas", "24/7"},
			ContextTags: []string{"product_overview", "introduction", "capabilities"},
			Priority:    10,
			Confidence:  1.0,
			Source:      "produto_oficial",
		},
		{
			Category: CategorySalesTechniques,
			Title:    "Técnica SPIN Selling",
			Content: "SPIN Selling é uma metodologia poderosa baseada em 4 tipos de perguntas:\n" +
				"- Situation (Situação): Entenda o contexto atual do cliente\n" +
				"- Problem (Problema): Identifique dores e desafios\n" +
				"- Implication (Implicação): Explore as consequências dos problemas\n" +
				"- Need-payoff (Necessidade-benefício): Mostre o valor da solução\n" +
				"Use esta sequência para guiar conversas de vendas de forma consultiva.",
			Keywords:    []string{"spin", "selling", "perguntas", "vendas", "consultiva", "metodologia"},
			ContextTags: []string{"sales_process", "questioning", "discovery"},
			Priority:    9,
			Confidence:  0.9,
			Source:      "metodologia_vendas",
		},
		{
			Category: CategoryObjectionHandling,
			Title:    "Objeção: 'É muito caro'",
			Content: "Quando o cliente diz que é caro, responda:\n" +
				"1. Reconheça: 'Entendo sua preocupação com o investimento'\n" +
				"2. Reframe: 'Vamos pensar no custo de não resolver esse problema'\n" +
				"3. Valor: 'Considerando os resultados que você vai obter...'\n" +
				"4. ROI: 'Em quanto tempo você recuperaria esse investimento?'\n" +
				"5. Alternativas: 'Temos opções que podem se adequar melhor ao seu orçamento'\n" +
				"Sempre foque no valor, não no preço.",
			Keywords:    []string{"caro", "preço", "investimento", "orçamento", "custo", "valor"},
			ContextTags: []string{"price_objection", "value_selling", "roi"},
			Priority:    8,
			Confidence:  0.9,
			Source:      "treinamento_vendas",
		},
		{
			Category: CategoryCustomerStories,
			Title:    "Caso de Sucesso: E-commerce 300% de Conversão",
			Content: "Uma loja online de eletrônicos implementou o LinkMágico e viu resultados impressionantes:\n" +
				"- 300% de aumento na conversão de visitantes em leads\n" +
				"- 85% de redução no tempo de resposta ao cliente\n" +
				"- 40% de aumento nas vendas online em 60 dias\n" +
				"- ROI de 450% no primeiro ano\n" +
				"O segredo foi a personalização das conversas e o atendimento 24/7 que nunca deixa o cliente sem resposta.",
			Keywords:    []string{"caso", "sucesso", "ecommerce", "conversão", "resultados", "roi"},
			ContextTags: []string{"social_proof", "results", "ecommerce"},
			Priority:    9,
			Confidence:  0.8,
			Source:      "case_study",
		},
		{
			Category: CategoryFAQs,
			Title:    "FAQ: Como funciona a integração?",
			Content: "A integração do LinkMágico é simples e rápida:\n" +
				"1. Configuração inicial em 15 minutos\n" +
				"2. Personalização da base de conhecimento\n" +
				"3. Treinamento da IA com seus dados\n" +
				"4. Testes e ajustes finais\n" +
				"5. Go-live\n\n" +
				"Oferecemos suporte completo durante todo o processo. A maioria dos clientes está operacional em menos de 24 horas.",
			Keywords:    []string{"integração", "implementação", "configuração", "setup", "instalação"},
			ContextTags: []string{"implementation", "technical", "process"},
			Priority:    7,
			Confidence:  0.9,
			Source:      "documentacao_tecnica",
		},
		{
			Category: CategoryBenefits,
			Title:    "Benefício: Atendimento 24/7 Sem Limites",
			Content: "Diferente de equipes humanas, o LinkMágico oferece:\n" +
				"- Atendimento 24 horas por dia, 7 dias por semana\n" +
				"- Capacidade ilimitada de atendimentos simultâneos\n" +
				"- Consistência na qualidade das respostas\n" +
				"- Redução de 90% nos custos operacionais\n" +
				"- Escalabilidade instantânea para picos de demanda\n" +
				"- Zero tempo de espera para o cliente\n\n" +
				"Isso significa que você nunca perde uma venda por falta de atendimento.",
			Keywords:    []string{"24/7", "atendimento", "simultâneo", "escalabilidade", "custos", "disponibilidade"},
			ContextTags: []string{"availability", "scalability", "cost_reduction"},
			Priority:    8,
			Confidence:  1.0,
			Source:      "especificacoes_produto",
		},
		{
			Category: CategoryComparisons,
			Title:    "LinkMágico vs Chatbots Tradicionais",
			Content: "Diferenças fundamentais:\n\n" +
				"Chatbots Tradicionais:\n" +
				"- Respostas engessadas e limitadas\n" +
				"- Travam com perguntas fora do script\n" +
				"- Não aprendem nem se adaptam\n" +
				"- Experiência frustrante para o usuário\n\n" +
				"LinkMágico:\n" +
				"- Conversas naturais e fluidas\n" +
				"- Inteligência contextual avançada\n" +
				"- Aprendizado contínuo\n" +
				"- Experiência humanizada\n" +
				"- Foco em conversão e vendas",
			Keywords:    []string{"comparação", "diferenças", "tradicional", "vantagens", "superior"},
			ContextTags: []string{"competitive_advantage", "differentiation"},
			Priority:    8,
			Confidence:  0.9,
			Source:      "analise_competitiva",
		},
	}
}
